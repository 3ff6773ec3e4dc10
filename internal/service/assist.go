package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/deepbrowser/deepbrowser-server/internal/ai"
	"github.com/deepbrowser/deepbrowser-server/internal/domain"
	domainerrors "github.com/deepbrowser/deepbrowser-server/internal/errors"
	"github.com/deepbrowser/deepbrowser-server/internal/fetch"
	"github.com/deepbrowser/deepbrowser-server/internal/id"
	"github.com/deepbrowser/deepbrowser-server/internal/readability"
	"github.com/deepbrowser/deepbrowser-server/internal/store"
)

const (
	// topicSourceLimit caps the source text embedded in the focus prompt.
	topicSourceLimit = 2000
	// readerHTMLLimit caps the raw HTML handed to the model for extraction.
	readerHTMLLimit = 12000
)

// AssistService runs the model-backed flows: focus session initialization,
// page summarization, and reader-mode extraction.
type AssistService struct {
	store    *store.Store
	optional ai.Optional
	fetcher  *fetch.Client
	logger   *slog.Logger
}

// NewAssistService creates a new assist service.
func NewAssistService(store *store.Store, optional ai.Optional, fetcher *fetch.Client, logger *slog.Logger) *AssistService {
	return &AssistService{
		store:    store,
		optional: optional,
		fetcher:  fetcher,
		logger:   logger,
	}
}

// SessionInitRequest starts a focus session from source text.
type SessionInitRequest struct {
	TopicSourceText string `json:"topicSourceText" validate:"required"`
	WorkspaceID     string `json:"workspaceId"`
	Sensitivity     string `json:"sensitivity"`
}

// SummarizePageRequest asks for a page summary by URL, raw content, or both.
type SummarizePageRequest struct {
	URL     string `json:"url"`
	Content string `json:"content"`
	Title   string `json:"title"`
}

// ReaderModeRequest asks for a readable extraction of a page.
type ReaderModeRequest struct {
	URL string `json:"url" validate:"required"`
}

const focusPromptTemplate = `You are an AI assistant for a focus/productivity app. Analyze this topic and return ONLY valid JSON (no markdown, no backticks) with this exact structure:

{
  "sessionId": "unique_session_id",
  "topic": {
    "title": "concise title",
    "keywords": [{"kw":"keyword1","weight":0.8}, {"kw":"keyword2","weight":0.6}],
    "phrases": ["important phrase 1", "important phrase 2"],
    "summarySeed": "brief summary under 300 chars",
    "tagSuggestions": ["tag1", "tag2", "tag3"]
  },
  "localMatchingRules": {
    "minKeywordOverlap": 0.20,
    "minWeightedScore": 0.60,
    "titleBoost": 1.3,
    "domainWhitelist": [],
    "ignoreShortPages": true
  },
  "synthTemplates": {
    "outlineTemplate": "## {{title}}\n\n### Key Points\n- {{point1}}\n- {{point2}}",
    "summaryPromptSeed": "Summarize the key findings about {{topic}}"
  },
  "confidence": 0.85,
  "notes": ["Generated analysis for focus session"],
  "recommendations": {
    "keywordsToTrack": ["keyword1", "keyword2"],
    "maxPageTextCharsToEmbed": 2000
  }
}

Topic to analyze: %s

Remember: Return ONLY the JSON object, no other text.`

// SessionInit prompts the model for a focus plan, persists it as a focus
// session owned by the acting identity, and returns the parsed plan.
func (s *AssistService) SessionInit(ctx context.Context, userID string, req SessionInitRequest) (*domain.FocusPlan, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	client, err := s.optional.Client()
	if err != nil {
		return nil, err
	}

	source := ai.Truncate(req.TopicSourceText, topicSourceLimit)
	prompt := fmt.Sprintf(focusPromptTemplate, source)

	var plan domain.FocusPlan
	if err := client.CompleteJSON(ctx, []ai.Message{{Role: "user", Content: prompt}}, &plan); err != nil {
		return nil, err
	}

	sessionID, err := id.Generate("session")
	if err != nil {
		return nil, fmt.Errorf("generate session ID: %w", err)
	}

	session := domain.NewFocusSession(sessionID, userID, req.WorkspaceID, plan)
	if err := s.store.FocusSessions.Create(ctx, session.ID, session); err != nil {
		return nil, fmt.Errorf("persist focus session: %w", err)
	}

	s.logger.Info("focus session initialized",
		"session_id", session.ID,
		"user_id", userID,
	)

	return &plan, nil
}

const summaryPromptTemplate = `Summarize the following webpage content. Provide a concise summary with key points, main topics, and important information.

Title: %s
URL: %s

Content:
%s

Please provide:
1. A brief overview (2-3 sentences)
2. Key points (bulleted list)
3. Main topics discussed
4. Important details or takeaways

Format your response as JSON with this structure:
{
  "summary": "Brief overview of the page",
  "keyPoints": ["Point 1", "Point 2", "Point 3"],
  "mainTopics": ["Topic 1", "Topic 2"],
  "takeaways": ["Takeaway 1", "Takeaway 2"],
  "wordCount": 0
}

Return ONLY the JSON object, no markdown formatting.`

// SummarizePage summarizes a page given by URL and/or raw content, persisting
// the result as a PageSummary record.
func (s *AssistService) SummarizePage(ctx context.Context, userID string, req SummarizePageRequest) (map[string]any, error) {
	if req.URL == "" && req.Content == "" {
		return nil, domainerrors.Validation("either url or content is required")
	}

	client, err := s.optional.Client()
	if err != nil {
		return nil, err
	}

	content := req.Content
	if content == "" {
		page, fetchErr := s.fetcher.Get(ctx, req.URL)
		if fetchErr != nil {
			return nil, domainerrors.Validation("failed to fetch page content").WithCause(fetchErr)
		}
		content = string(page.Body)
	}

	title := req.Title
	if title == "" {
		title = "Untitled Page"
	}
	pageURL := req.URL
	if pageURL == "" {
		pageURL = "N/A"
	}

	text := readability.Text(content)
	prompt := fmt.Sprintf(summaryPromptTemplate, title, pageURL, text)

	var summary map[string]any
	if err := client.CompleteJSON(ctx, []ai.Message{{Role: "user", Content: prompt}}, &summary); err != nil {
		return nil, err
	}

	summaryID, err := id.Generate("summary")
	if err != nil {
		return nil, fmt.Errorf("generate summary ID: %w", err)
	}

	record := domain.NewPageSummary(summaryID, userID, req.URL, req.Title, summary)
	if err := s.store.PageSummaries.Create(ctx, record.ID, record); err != nil {
		return nil, fmt.Errorf("persist page summary: %w", err)
	}

	return summary, nil
}

const readerPromptTemplate = `Extract the main readable content from this HTML page. Return ONLY a JSON object with:
{
  "title": "Page title",
  "content": "Clean readable text content with proper paragraphs separated by double newlines",
  "summary": "Brief summary in one sentence"
}

HTML Content:
%s

Return ONLY the JSON, no markdown, no backticks.`

// ReaderMode fetches a page and extracts its readable article. The model is
// the primary extractor; when the capability is absent or the model call or
// parse fails, the local extractor takes over.
func (s *AssistService) ReaderMode(ctx context.Context, req ReaderModeRequest) (*readability.Article, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	page, err := s.fetcher.Get(ctx, req.URL)
	if err != nil {
		if fetch.IsConnRefused(err) {
			return nil, domainerrors.Unavailable(
				fmt.Sprintf("connection refused, make sure the server at %s is running", fetch.NormalizeURL(req.URL)))
		}
		return nil, domainerrors.Validation("failed to fetch page").WithCause(err)
	}

	rawHTML := string(page.Body)

	if client, err := s.optional.Client(); err == nil {
		prompt := fmt.Sprintf(readerPromptTemplate, ai.Truncate(rawHTML, readerHTMLLimit))

		var article readability.Article
		if err := client.CompleteJSON(ctx, []ai.Message{{Role: "user", Content: prompt}}, &article); err == nil {
			return &article, nil
		}
		s.logger.Warn("model extraction failed, falling back to local extraction", "url", page.FinalURL)
	}

	article, err := readability.Extract(rawHTML)
	if err != nil {
		return nil, fmt.Errorf("extract article: %w", err)
	}
	if article.Summary == "" {
		article.Summary = "Content extracted from " + page.FinalURL
	}

	return article, nil
}
