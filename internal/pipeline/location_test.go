//-------------------------------------------------------------------------
//
// TourChat Server
//
// Copyright (c) 2025 - 2026, the TourChat authors
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

package pipeline

import (
	"testing"

	"github.com/tourchat/tourchat-server/internal/llm"
	"github.com/tourchat/tourchat-server/internal/session"
)

func TestLocationExtractor_EmptyHistory(t *testing.T) {
	extractor := NewLocationExtractor(4)

	if got := extractor.Extract(nil); got != "" {
		t.Errorf("expected no location for empty history, got %q", got)
	}
}

func TestLocationExtractor_FindsLocation(t *testing.T) {
	extractor := NewLocationExtractor(4)

	history := []session.Turn{
		{Role: llm.RoleUser, Text: "Tôi muốn đi Nha Trang vào tháng sau"},
		{Role: llm.RoleAssistant, Text: "Dạ bên em có nhiều tour ạ."},
	}

	if got := extractor.Extract(history); got != "nha trang" {
		t.Errorf("expected 'nha trang', got %q", got)
	}
}

func TestLocationExtractor_CaseInsensitive(t *testing.T) {
	extractor := NewLocationExtractor(4)

	history := []session.Turn{
		{Role: llm.RoleUser, Text: "TOUR ĐÀ NẴNG có không?"},
	}

	if got := extractor.Extract(history); got != "đà nẵng" {
		t.Errorf("expected 'đà nẵng', got %q", got)
	}
}

func TestLocationExtractor_PrefersMostRecentUserTurn(t *testing.T) {
	extractor := NewLocationExtractor(4)

	history := []session.Turn{
		{Role: llm.RoleUser, Text: "Có tour Huế không?"},
		{Role: llm.RoleAssistant, Text: "Dạ có ạ."},
		{Role: llm.RoleUser, Text: "Thế tour Đà Lạt thì sao?"},
		{Role: llm.RoleAssistant, Text: "Đà Lạt cũng có ạ."},
	}

	if got := extractor.Extract(history); got != "đà lạt" {
		t.Errorf("expected most recent location 'đà lạt', got %q", got)
	}
}

func TestLocationExtractor_IgnoresAssistantTurns(t *testing.T) {
	extractor := NewLocationExtractor(4)

	history := []session.Turn{
		{Role: llm.RoleUser, Text: "Tour nào đang giảm giá?"},
		{Role: llm.RoleAssistant, Text: "Bên em đang giảm giá tour Phú Quốc ạ."},
	}

	if got := extractor.Extract(history); got != "" {
		t.Errorf("locations in assistant turns should not count, got %q", got)
	}
}

func TestLocationExtractor_RespectsWindow(t *testing.T) {
	extractor := NewLocationExtractor(2)

	history := []session.Turn{
		{Role: llm.RoleUser, Text: "Có tour Sapa không?"},
		{Role: llm.RoleAssistant, Text: "Dạ có ạ."},
		{Role: llm.RoleUser, Text: "Giá bao nhiêu?"},
		{Role: llm.RoleAssistant, Text: "Từ 2 triệu ạ."},
	}

	// Sapa was mentioned outside the 2-turn window
	if got := extractor.Extract(history); got != "" {
		t.Errorf("expected no location inside window, got %q", got)
	}
}

func TestLocationExtractor_NoKnownLocation(t *testing.T) {
	extractor := NewLocationExtractor(4)

	history := []session.Turn{
		{Role: llm.RoleUser, Text: "Tour nào rẻ nhất?"},
	}

	if got := extractor.Extract(history); got != "" {
		t.Errorf("expected no location, got %q", got)
	}
}
