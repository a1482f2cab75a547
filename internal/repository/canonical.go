package repository

import (
	"encoding/json"
	"strings"
	"time"

	"book-sanctuary/internal/domain"
)

// Rows reach this package in several historical shapes: camelCase Firestore
// documents written by older web clients (authorId, createdAt, isPublished,
// metadata.fileSize) and snake_case Postgres rows. Everything is folded into
// the domain types here so services only ever see one shape.

// CanonicalDocument maps a stored document of any known shape to a Document.
func CanonicalDocument(id string, data map[string]interface{}) *domain.Document {
	if id == "" {
		id = getString(data, "id", "_id")
	}
	metadata := getMap(data, "metadata")

	doc := &domain.Document{
		ID:          id,
		Title:       getString(data, "title"),
		Description: getString(data, "description"),
		PDFURL:      getString(data, "pdfUrl", "pdf_url", "pdfURL"),
		PDFPath:     getString(data, "pdfPath", "pdf_path"),
		CoverURL:    getString(data, "coverUrl", "cover_url", "coverURL"),
		CoverPath:   getString(data, "coverPath", "cover_path"),
		UploadedBy:  getString(data, "uploadedBy", "uploaded_by", "authorId", "author_id"),
		UploadedAt:  getTime(data, "uploadedAt", "uploaded_at", "createdAt", "created_at"),
		UpdatedAt:   getTime(data, "updatedAt", "updated_at"),
		FileSize:    getInt64(data, "fileSize", "file_size"),
		FileName:    getString(data, "fileName", "file_name"),
		PageCount:   getInt(data, "pageCount", "page_count", "totalPages"),
		Status:      canonicalStatus(data),
	}

	if doc.Title == "" {
		doc.Title = "Untitled"
	}
	if doc.FileSize == 0 {
		doc.FileSize = getInt64(metadata, "fileSize")
	}
	if doc.FileName == "" {
		doc.FileName = getString(metadata, "originalFileName")
	}
	if doc.FileName == "" {
		doc.FileName = "Unknown"
	}
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = doc.UploadedAt
	}
	return doc
}

// canonicalStatus prefers an explicit status; legacy records only carry
// isPublished, and records with neither were always shown in the gallery.
func canonicalStatus(data map[string]interface{}) domain.DocumentStatus {
	if status := domain.DocumentStatus(strings.ToLower(getString(data, "status"))); status.Valid() {
		return status
	}
	if published, ok := getBool(data, "isPublished", "is_published"); ok && !published {
		return domain.StatusDraft
	}
	return domain.StatusPublished
}

// documentFields is the Firestore representation of doc. The legacy
// createdAt and isPublished fields are kept in sync for older readers.
func documentFields(doc *domain.Document) map[string]interface{} {
	return map[string]interface{}{
		"title":       doc.Title,
		"description": doc.Description,
		"pdfUrl":      doc.PDFURL,
		"pdfPath":     doc.PDFPath,
		"coverUrl":    doc.CoverURL,
		"coverPath":   doc.CoverPath,
		"uploadedBy":  doc.UploadedBy,
		"uploadedAt":  doc.UploadedAt,
		"createdAt":   doc.UploadedAt,
		"updatedAt":   doc.UpdatedAt,
		"fileSize":    doc.FileSize,
		"fileName":    doc.FileName,
		"pageCount":   doc.PageCount,
		"status":      string(doc.Status),
		"isPublished": doc.IsPublished(),
	}
}

// CanonicalUser maps a stored user profile to a User.
func CanonicalUser(id string, data map[string]interface{}) *domain.User {
	if id == "" {
		id = getString(data, "uid", "id", "_id")
	}
	isAdmin, _ := getBool(data, "isAdmin", "is_admin")

	user := &domain.User{
		ID:          id,
		Email:       getString(data, "email"),
		DisplayName: getString(data, "displayName", "display_name"),
		PhotoURL:    getString(data, "photoURL", "photoUrl", "photo_url"),
		IsAdmin:     isAdmin,
		CreatedAt:   getTime(data, "createdAt", "created_at"),
		LastLogin:   getTime(data, "lastLogin", "last_login"),
	}

	prefs := getMap(data, "preferences")
	user.Preferences = domain.Preferences{
		Theme:        getString(prefs, "theme"),
		FontSize:     getString(prefs, "fontSize", "font_size"),
		LineHeight:   getString(prefs, "lineHeight", "line_height"),
		ReadingWidth: getString(prefs, "readingWidth", "reading_width"),
	}
	return user
}

func preferenceFields(prefs domain.Preferences) map[string]interface{} {
	return map[string]interface{}{
		"theme":        prefs.Theme,
		"fontSize":     prefs.FontSize,
		"lineHeight":   prefs.LineHeight,
		"readingWidth": prefs.ReadingWidth,
	}
}

// CanonicalBookmark maps a stored bookmark to a Bookmark. userID and
// documentID come from the storage path when the backend keys by path.
func CanonicalBookmark(userID, documentID string, data map[string]interface{}) *domain.Bookmark {
	if userID == "" {
		userID = getString(data, "userId", "user_id")
	}
	if documentID == "" {
		documentID = getString(data, "bookId", "book_id", "document_id")
	}
	return &domain.Bookmark{
		UserID:        userID,
		DocumentID:    documentID,
		CurrentPage:   getInt(data, "currentPage", "current_page"),
		TotalPages:    getInt(data, "totalPages", "total_pages"),
		LastRead:      getTime(data, "lastRead", "last_read"),
		DocumentTitle: getString(data, "bookTitle", "book_title", "documentTitle"),
	}
}

// CanonicalHighlight maps a stored highlight to a Highlight.
func CanonicalHighlight(id string, data map[string]interface{}) *domain.Highlight {
	if id == "" {
		id = getString(data, "id", "_id")
	}
	return &domain.Highlight{
		ID:           id,
		UserID:       getString(data, "userId", "user_id"),
		DocumentID:   getString(data, "bookId", "book_id", "document_id"),
		ChapterID:    getString(data, "chapterId", "chapter_id"),
		StartOffset:  getInt(data, "startOffset", "start_offset"),
		EndOffset:    getInt(data, "endOffset", "end_offset"),
		SelectedText: getString(data, "selectedText", "selected_text", "quote"),
		Color:        domain.HighlightColor(getString(data, "color")),
		Note:         getString(data, "note"),
		CreatedAt:    getTime(data, "createdAt", "created_at"),
		UpdatedAt:    getTime(data, "updatedAt", "updated_at"),
	}
}

// CanonicalChapter maps a stored chapter to a Chapter.
func CanonicalChapter(id string, data map[string]interface{}) *domain.Chapter {
	if id == "" {
		id = getString(data, "id", "_id")
	}
	return &domain.Chapter{
		ID:                id,
		DocumentID:        getString(data, "bookId", "book_id", "document_id"),
		Number:            getInt(data, "chapterNumber", "chapter_number"),
		Title:             getString(data, "title"),
		Content:           getString(data, "content"),
		WordCount:         getInt(data, "wordCount", "word_count"),
		EstimatedReadTime: getInt(data, "estimatedReadTime", "estimated_read_time"),
	}
}

// Helper functions for type conversion. Each takes candidate keys in
// priority order and returns the first usable value.

func getString(data map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if v, ok := data[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func getInt(data map[string]interface{}, keys ...string) int {
	return int(getInt64(data, keys...))
}

func getInt64(data map[string]interface{}, keys ...string) int64 {
	for _, key := range keys {
		switch v := data[key].(type) {
		case int:
			if v != 0 {
				return int64(v)
			}
		case int32:
			if v != 0 {
				return int64(v)
			}
		case int64:
			if v != 0 {
				return v
			}
		case float64:
			if v != 0 {
				return int64(v)
			}
		case json.Number:
			if n, err := v.Int64(); err == nil && n != 0 {
				return n
			}
		}
	}
	return 0
}

func getBool(data map[string]interface{}, keys ...string) (bool, bool) {
	for _, key := range keys {
		if v, ok := data[key].(bool); ok {
			return v, true
		}
	}
	return false, false
}

func getMap(data map[string]interface{}, key string) map[string]interface{} {
	if v, ok := data[key].(map[string]interface{}); ok {
		return v
	}
	return map[string]interface{}{}
}

func getTime(data map[string]interface{}, keys ...string) time.Time {
	for _, key := range keys {
		switch v := data[key].(type) {
		case time.Time:
			if !v.IsZero() {
				return v.UTC()
			}
		case *time.Time:
			if v != nil && !v.IsZero() {
				return v.UTC()
			}
		case string:
			if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
				return t.UTC()
			}
		case float64:
			// Milliseconds since the epoch, as written by JavaScript clients.
			if v > 0 {
				return time.UnixMilli(int64(v)).UTC()
			}
		case interface{ Time() time.Time }:
			return v.Time().UTC()
		}
	}
	return time.Time{}
}
