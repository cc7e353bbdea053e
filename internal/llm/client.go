// internal/llm/client.go
package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"apptrack-backend/internal/common/config"
	"apptrack-backend/internal/common/errors"
	"apptrack-backend/internal/common/logger"
	"apptrack-backend/internal/common/metrics"
	"apptrack-backend/internal/models"

	openai "github.com/sashabaranov/go-openai"
)

// ChatCompleter is the subset of the OpenAI client used for analysis.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
	CreateEmbeddings(ctx context.Context, req openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// Client wraps the OpenAI API for resume analysis, interview preparation,
// and embedding generation.
type Client struct {
	api            ChatCompleter
	model          string
	embeddingModel string
	log            logger.Logger
}

func NewClient(apiKey string, cfg config.APIsConfig, log logger.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, errors.NewLLMUnavailableError("OPENAI_API_KEY is not set")
	}
	return &Client{
		api:            openai.NewClient(apiKey),
		model:          cfg.OpenAI.Model,
		embeddingModel: cfg.OpenAI.EmbeddingModel,
		log:            log,
	}, nil
}

// NewClientWithAPI builds a Client around an existing API implementation.
func NewClientWithAPI(api ChatCompleter, model, embeddingModel string, log logger.Logger) *Client {
	return &Client{
		api:            api,
		model:          model,
		embeddingModel: embeddingModel,
		log:            log,
	}
}

const analysisSystemPrompt = `You are an expert technical recruiter. Compare the candidate resume
against the job description and respond with a JSON object containing exactly these keys:
"match_score" (integer 0-100), "strengths" (array of strings), "gaps" (array of strings),
"suggestions" (array of strings), "summary" (string, two sentences max).`

// AnalyzeResume scores a resume against a job description using JSON mode.
func (c *Client) AnalyzeResume(ctx context.Context, resumeText, jobDescription string) (*models.ResumeAnalysis, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: analysisSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(
				"RESUME:\n%s\n\nJOB DESCRIPTION:\n%s", resumeText, jobDescription)},
		},
		Temperature: 0.2,
	})
	if err != nil {
		metrics.LLMCallsTotal.WithLabelValues("analyze_resume", "error").Inc()
		return nil, errors.NewLLMAnalysisFailedError(err)
	}
	if len(resp.Choices) == 0 {
		metrics.LLMCallsTotal.WithLabelValues("analyze_resume", "error").Inc()
		return nil, errors.NewLLMAnalysisFailedError(fmt.Errorf("empty completion response"))
	}

	var analysis models.ResumeAnalysis
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &analysis); err != nil {
		metrics.LLMCallsTotal.WithLabelValues("analyze_resume", "error").Inc()
		return nil, errors.NewLLMAnalysisFailedError(fmt.Errorf("malformed analysis JSON: %w", err))
	}
	if analysis.MatchScore < 0 || analysis.MatchScore > 100 {
		metrics.LLMCallsTotal.WithLabelValues("analyze_resume", "error").Inc()
		return nil, errors.NewLLMAnalysisFailedError(
			fmt.Errorf("match_score %d outside 0-100", analysis.MatchScore))
	}

	metrics.LLMCallsTotal.WithLabelValues("analyze_resume", "success").Inc()
	return &analysis, nil
}

const questionsSystemPrompt = `You are an interview coach. Generate preparation questions for the
given role. Respond with a JSON object: {"questions": [{"question": string,
"category": one of "technical"|"behavioral"|"company", "rationale": string}]}.
Generate 8 to 12 questions covering all three categories.`

// GenerateInterviewQuestions produces tailored preparation questions for a job.
func (c *Client) GenerateInterviewQuestions(ctx context.Context, job *models.JobApplication, resumeText string) ([]models.InterviewQuestion, error) {
	userPrompt := fmt.Sprintf("COMPANY: %s\nPOSITION: %s\nJOB DESCRIPTION:\n%s",
		job.Company, job.Position, job.JobDescription)
	if resumeText != "" {
		userPrompt += "\n\nCANDIDATE RESUME:\n" + resumeText
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: questionsSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: 0.7,
	})
	if err != nil {
		metrics.LLMCallsTotal.WithLabelValues("interview_questions", "error").Inc()
		return nil, errors.NewLLMAnalysisFailedError(err)
	}
	if len(resp.Choices) == 0 {
		metrics.LLMCallsTotal.WithLabelValues("interview_questions", "error").Inc()
		return nil, errors.NewLLMAnalysisFailedError(fmt.Errorf("empty completion response"))
	}

	var parsed struct {
		Questions []models.InterviewQuestion `json:"questions"`
	}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &parsed); err != nil {
		metrics.LLMCallsTotal.WithLabelValues("interview_questions", "error").Inc()
		return nil, errors.NewLLMAnalysisFailedError(fmt.Errorf("malformed questions JSON: %w", err))
	}
	if len(parsed.Questions) == 0 {
		metrics.LLMCallsTotal.WithLabelValues("interview_questions", "error").Inc()
		return nil, errors.NewLLMAnalysisFailedError(fmt.Errorf("no questions generated"))
	}

	metrics.LLMCallsTotal.WithLabelValues("interview_questions", "success").Inc()
	return parsed.Questions, nil
}

// Embed returns the embedding vector for a piece of text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(c.embeddingModel),
		Input: []string{text},
	})
	if err != nil {
		metrics.LLMCallsTotal.WithLabelValues("embed", "error").Inc()
		return nil, errors.NewLLMAnalysisFailedError(err)
	}
	if len(resp.Data) == 0 {
		metrics.LLMCallsTotal.WithLabelValues("embed", "error").Inc()
		return nil, errors.NewLLMAnalysisFailedError(fmt.Errorf("empty embedding response"))
	}

	metrics.LLMCallsTotal.WithLabelValues("embed", "success").Inc()
	return resp.Data[0].Embedding, nil
}
