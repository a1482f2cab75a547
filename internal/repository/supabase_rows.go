package repository

import (
	"encoding/json"
	"fmt"

	"book-sanctuary/internal/domain"

	"github.com/supabase-community/supabase-go"
)

func supabaseDB(client domain.SupabaseClient) (*supabase.Client, error) {
	db := client.DB()
	if db == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}
	return db, nil
}

func decodeRows(data []byte) ([]map[string]interface{}, error) {
	var rows []map[string]interface{}
	if len(data) == 0 {
		return rows, nil
	}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return rows, nil
}
