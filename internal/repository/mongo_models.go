package repository

import (
	"time"

	"book-sanctuary/internal/domain"
)

type mongoDocument struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"title"`
	Description string    `bson:"description,omitempty"`
	PDFURL      string    `bson:"pdfUrl"`
	PDFPath     string    `bson:"pdfPath,omitempty"`
	CoverURL    string    `bson:"coverUrl,omitempty"`
	CoverPath   string    `bson:"coverPath,omitempty"`
	UploadedBy  string    `bson:"uploadedBy"`
	UploadedAt  time.Time `bson:"uploadedAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
	FileSize    int64     `bson:"fileSize"`
	FileName    string    `bson:"fileName"`
	PageCount   int       `bson:"pageCount"`
	Status      string    `bson:"status"`
}

func toMongoDocument(d *domain.Document) *mongoDocument {
	return &mongoDocument{
		ID: d.ID, Title: d.Title, Description: d.Description,
		PDFURL: d.PDFURL, PDFPath: d.PDFPath, CoverURL: d.CoverURL, CoverPath: d.CoverPath,
		UploadedBy: d.UploadedBy, UploadedAt: d.UploadedAt, UpdatedAt: d.UpdatedAt,
		FileSize: d.FileSize, FileName: d.FileName, PageCount: d.PageCount, Status: string(d.Status),
	}
}

func (m *mongoDocument) toDomain() *domain.Document {
	status := domain.DocumentStatus(m.Status)
	if !status.Valid() {
		status = domain.StatusPublished
	}
	return &domain.Document{
		ID: m.ID, Title: m.Title, Description: m.Description,
		PDFURL: m.PDFURL, PDFPath: m.PDFPath, CoverURL: m.CoverURL, CoverPath: m.CoverPath,
		UploadedBy: m.UploadedBy, UploadedAt: m.UploadedAt.UTC(), UpdatedAt: m.UpdatedAt.UTC(),
		FileSize: m.FileSize, FileName: m.FileName, PageCount: m.PageCount, Status: status,
	}
}

type mongoUser struct {
	ID          string             `bson:"_id"`
	Email       string             `bson:"email"`
	DisplayName string             `bson:"displayName"`
	PhotoURL    string             `bson:"photoURL,omitempty"`
	IsAdmin     bool               `bson:"isAdmin"`
	Preferences domain.Preferences `bson:"preferences"`
	CreatedAt   time.Time          `bson:"createdAt"`
	LastLogin   time.Time          `bson:"lastLogin"`
}

func (m *mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID: m.ID, Email: m.Email, DisplayName: m.DisplayName, PhotoURL: m.PhotoURL,
		IsAdmin: m.IsAdmin, Preferences: m.Preferences,
		CreatedAt: m.CreatedAt.UTC(), LastLogin: m.LastLogin.UTC(),
	}
}

type mongoBookmark struct {
	UserID      string    `bson:"userId"`
	DocumentID  string    `bson:"bookId"`
	CurrentPage int       `bson:"currentPage"`
	TotalPages  int       `bson:"totalPages"`
	LastRead    time.Time `bson:"lastRead"`
	BookTitle   string    `bson:"bookTitle"`
}

func (m *mongoBookmark) toDomain() *domain.Bookmark {
	return &domain.Bookmark{
		UserID: m.UserID, DocumentID: m.DocumentID, CurrentPage: m.CurrentPage,
		TotalPages: m.TotalPages, LastRead: m.LastRead.UTC(), DocumentTitle: m.BookTitle,
	}
}

type mongoHighlight struct {
	ID           string    `bson:"_id"`
	UserID       string    `bson:"userId"`
	DocumentID   string    `bson:"bookId"`
	ChapterID    string    `bson:"chapterId"`
	StartOffset  int       `bson:"startOffset"`
	EndOffset    int       `bson:"endOffset"`
	SelectedText string    `bson:"selectedText"`
	Color        string    `bson:"color"`
	Note         string    `bson:"note,omitempty"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

func toMongoHighlight(h *domain.Highlight) *mongoHighlight {
	return &mongoHighlight{
		ID: h.ID, UserID: h.UserID, DocumentID: h.DocumentID, ChapterID: h.ChapterID,
		StartOffset: h.StartOffset, EndOffset: h.EndOffset, SelectedText: h.SelectedText,
		Color: string(h.Color), Note: h.Note, CreatedAt: h.CreatedAt, UpdatedAt: h.UpdatedAt,
	}
}

func (m *mongoHighlight) toDomain() *domain.Highlight {
	return &domain.Highlight{
		ID: m.ID, UserID: m.UserID, DocumentID: m.DocumentID, ChapterID: m.ChapterID,
		StartOffset: m.StartOffset, EndOffset: m.EndOffset, SelectedText: m.SelectedText,
		Color: domain.HighlightColor(m.Color), Note: m.Note,
		CreatedAt: m.CreatedAt.UTC(), UpdatedAt: m.UpdatedAt.UTC(),
	}
}

type mongoChapter struct {
	ID                string `bson:"_id"`
	DocumentID        string `bson:"bookId"`
	Number            int    `bson:"chapterNumber"`
	Title             string `bson:"title"`
	Content           string `bson:"content"`
	WordCount         int    `bson:"wordCount"`
	EstimatedReadTime int    `bson:"estimatedReadTime"`
}

func toMongoChapter(c *domain.Chapter) *mongoChapter {
	return &mongoChapter{
		ID: c.ID, DocumentID: c.DocumentID, Number: c.Number, Title: c.Title,
		Content: c.Content, WordCount: c.WordCount, EstimatedReadTime: c.EstimatedReadTime,
	}
}

func (m *mongoChapter) toDomain() *domain.Chapter {
	return &domain.Chapter{
		ID: m.ID, DocumentID: m.DocumentID, Number: m.Number, Title: m.Title,
		Content: m.Content, WordCount: m.WordCount, EstimatedReadTime: m.EstimatedReadTime,
	}
}
