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
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tourchat/tourchat-server/internal/llm"
	"github.com/tourchat/tourchat-server/internal/session"
)

// turnTruncateRunes caps how much of each history turn is quoted in the
// rewrite prompt.
const turnTruncateRunes = 200

// minRewriteRunes is the shortest rewritten query we accept; anything
// shorter is treated as a failed rewrite.
const minRewriteRunes = 3

const rewritePromptTemplate = `Bạn là chuyên viên tư vấn tour du lịch có nhiều năm kinh nghiệm. Nhiệm vụ: biến câu hỏi ngắn gọn thành câu hỏi ĐẦY ĐỦ NGỮ CẢNH với cách trả lời tự nhiên thân thiện.

**LỊCH SỬ HỘI THOẠI:**
%s

**CÂU HỎI HIỆN TẠI:** %s

**QUY TẮC XỬ LÝ (QUAN TRỌNG):**
1. TÌM ĐỊA ĐIỂM chính được nhắc đến trong lịch sử (Đà Nẵng, Huế, Nha Trang, Phú Quốc...)
2. Khi user hỏi về tour với thời gian cụ thể (3N2Đ, 5N4Đ...) → Xem LẠI ĐỊA ĐIỂM từ những câu hỏi trước
3. Ưu tiên địa điểm từ câu hỏi GẦN NHẤT của User
4. Nếu câu hỏi đã đầy đủ → giữ nguyên
5. KHÔNG bịa thông tin không có trong dữ liệu

**CÂU TRẢ LỜI (CHỈ viết câu hỏi đã rewrite, KHÔNG giải thích):**`

// QueryRewriter turns short follow-up questions into self-contained
// queries by asking a low-temperature model to fold in recent history.
type QueryRewriter struct {
	generator llm.TextGenerator
	window    int
	logger    *slog.Logger
}

// NewQueryRewriter creates a rewriter that considers the last window turns
// of history.
func NewQueryRewriter(generator llm.TextGenerator, window int, logger *slog.Logger) *QueryRewriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryRewriter{
		generator: generator,
		window:    window,
		logger:    logger,
	}
}

// Rewrite returns a context-complete version of query. It never fails:
// whenever the model cannot produce a usable rewrite, the original query
// is returned unchanged.
func (r *QueryRewriter) Rewrite(ctx context.Context, query string, history []session.Turn) string {
	if len(history) == 0 {
		return query
	}

	prompt := fmt.Sprintf(rewritePromptTemplate, formatHistory(history, r.window), query)

	resp, err := r.generator.Generate(ctx, llm.GenerateRequest{Prompt: prompt})
	if err != nil {
		r.logger.Warn("query rewrite failed, using original query", "error", err)
		return query
	}
	if resp.Status != llm.FinishStop {
		r.logger.Debug("query rewrite did not complete, using original query",
			"status", resp.Status.String())
		return query
	}

	rewritten := cleanRewrite(resp.Text)
	if len([]rune(rewritten)) < minRewriteRunes {
		return query
	}

	r.logger.Debug("query rewritten", "original", query, "rewritten", rewritten)
	return rewritten
}

// formatHistory renders the last window turns as labeled lines, truncating
// each turn so a single long answer cannot dominate the prompt.
func formatHistory(history []session.Turn, window int) string {
	recent := history
	if window > 0 && len(history) > window {
		recent = history[len(history)-window:]
	}

	var b strings.Builder
	for _, turn := range recent {
		label := "Bot"
		if turn.Role == llm.RoleUser {
			label = "User"
		}
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(truncateRunes(turn.Text, turnTruncateRunes))
		b.WriteString("\n")
	}
	return b.String()
}

// cleanRewrite strips model formatting artifacts and keeps only the first
// line of the rewritten query.
func cleanRewrite(text string) string {
	cleaned := strings.ReplaceAll(text, "→", "")
	cleaned = strings.ReplaceAll(cleaned, "**", "")
	cleaned = strings.ReplaceAll(cleaned, "Output:", "")
	cleaned = strings.TrimSpace(cleaned)
	if line, _, found := strings.Cut(cleaned, "\n"); found {
		cleaned = line
	}
	return strings.TrimSpace(cleaned)
}

// truncateRunes shortens s to at most n runes. Truncation counts runes,
// not bytes, so Vietnamese text is never cut mid-character.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
