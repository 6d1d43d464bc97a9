package embedder

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/codenav/codenav/pkg/types"
)

// Provider configuration
const (
	ProviderOpenAI = "openai"
	ProviderLocal  = "local"

	DefaultOpenAIModel = "text-embedding-3-small"

	OpenAIDimension = 1536
	LocalDimension  = 384

	MaxBatchSize = 100

	EnvOpenAIAPIKey = "OPENAI_API_KEY"
)

// OpenAIProvider implements Embedder using the OpenAI embeddings API
type OpenAIProvider struct {
	apiKey     string
	model      string
	httpClient *http.Client
	cache      *Cache
}

// NewOpenAIProvider creates a new OpenAI embedder
func NewOpenAIProvider(apiKey string, cache *Cache) (*OpenAIProvider, error) {
	if apiKey == "" {
		apiKey = os.Getenv(EnvOpenAIAPIKey)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: %s not set", ErrNoProviderEnabled, EnvOpenAIAPIKey)
	}

	return &OpenAIProvider{
		apiKey: apiKey,
		model:  DefaultOpenAIModel,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		cache: cache,
	}, nil
}

func (o *OpenAIProvider) Embed(ctx context.Context, req Request) (*Embedding, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	// Check cache
	hash := ComputeHash(req.Text)
	if o.cache != nil {
		if emb, ok := o.cache.Get(hash); ok {
			return emb, nil
		}
	}

	// Use batch API for consistency
	resp, err := o.EmbedBatch(ctx, BatchRequest{
		Texts: []string{req.Text},
		Model: req.Model,
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("%w: no embeddings returned", types.ErrEmbeddingUnavailable)
	}

	return resp.Embeddings[0], nil
}

func (o *OpenAIProvider) EmbedBatch(ctx context.Context, req BatchRequest) (*BatchResponse, error) {
	if err := ValidateBatchRequest(req); err != nil {
		return nil, err
	}

	if len(req.Texts) > MaxBatchSize {
		return nil, fmt.Errorf("%w: max %d texts allowed", ErrBatchTooLarge, MaxBatchSize)
	}

	model := req.Model
	if model == "" {
		model = o.model
	}

	// Retry with exponential backoff; exhaustion surfaces the taxonomy error
	config := DefaultRetryConfig()
	embeddings, err := retryWithBackoff(ctx, config, func() ([]*Embedding, error) {
		return o.callAPI(ctx, req.Texts, model)
	})

	if err != nil {
		return nil, fmt.Errorf("%w: after %d retries: %v", types.ErrEmbeddingUnavailable, MaxRetries, err)
	}

	// Cache successful embeddings
	if o.cache != nil {
		for i, emb := range embeddings {
			hash := ComputeHash(req.Texts[i])
			emb.Hash = hash
			o.cache.Set(hash, emb)
		}
	}

	return &BatchResponse{
		Embeddings: embeddings,
		Provider:   ProviderOpenAI,
		Model:      model,
	}, nil
}

func (o *OpenAIProvider) callAPI(ctx context.Context, texts []string, model string) ([]*Embedding, error) {
	reqBody := map[string]interface{}{
		"input": texts,
		"model": model,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", "https://api.openai.com/v1/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api call: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("api error %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var apiResp struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
			Index     int       `json:"index"`
		} `json:"data"`
		Model string `json:"model"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	embeddings := make([]*Embedding, len(apiResp.Data))
	for i, data := range apiResp.Data {
		embeddings[i] = &Embedding{
			Vector:    data.Embedding,
			Dimension: len(data.Embedding),
			Provider:  ProviderOpenAI,
			Model:     apiResp.Model,
		}
	}

	return embeddings, nil
}

func (o *OpenAIProvider) Dimension() int {
	return OpenAIDimension
}

func (o *OpenAIProvider) Provider() string {
	return ProviderOpenAI
}

func (o *OpenAIProvider) Model() string {
	return o.model
}

func (o *OpenAIProvider) Close() error {
	o.httpClient.CloseIdleConnections()
	return nil
}

// LocalProvider derives deterministic embeddings from content hashes.
// Suitable for development and tests; no network access required.
type LocalProvider struct {
	model string
	cache *Cache
}

// NewLocalProvider creates a new local embedder
func NewLocalProvider(cache *Cache) (*LocalProvider, error) {
	return &LocalProvider{
		model: "local-hash",
		cache: cache,
	}, nil
}

func (l *LocalProvider) Embed(ctx context.Context, req Request) (*Embedding, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	hash := ComputeHash(req.Text)
	if l.cache != nil {
		if emb, ok := l.cache.Get(hash); ok {
			return emb, nil
		}
	}

	// Deterministic vector from repeated hashing of the text; identical
	// input always yields the identical vector.
	vector := make([]float32, LocalDimension)
	seed := sha256.Sum256([]byte(req.Text))
	for i := 0; i < LocalDimension; i += len(seed) {
		for j := 0; j < len(seed) && i+j < LocalDimension; j++ {
			vector[i+j] = float32(seed[j])/255.0 - 0.5
		}
		seed = sha256.Sum256(seed[:])
	}

	emb := &Embedding{
		Vector:    vector,
		Dimension: LocalDimension,
		Provider:  ProviderLocal,
		Model:     l.model,
		Hash:      hash,
	}

	if l.cache != nil {
		l.cache.Set(hash, emb)
	}

	return emb, nil
}

func (l *LocalProvider) EmbedBatch(ctx context.Context, req BatchRequest) (*BatchResponse, error) {
	if err := ValidateBatchRequest(req); err != nil {
		return nil, err
	}

	embeddings := make([]*Embedding, len(req.Texts))
	for i, text := range req.Texts {
		emb, err := l.Embed(ctx, Request{Text: text, Model: req.Model})
		if err != nil {
			return nil, fmt.Errorf("embedding text %d: %w", i, err)
		}
		embeddings[i] = emb
	}

	return &BatchResponse{
		Embeddings: embeddings,
		Provider:   ProviderLocal,
		Model:      l.model,
	}, nil
}

func (l *LocalProvider) Dimension() int {
	return LocalDimension
}

func (l *LocalProvider) Provider() string {
	return ProviderLocal
}

func (l *LocalProvider) Model() string {
	return l.model
}

func (l *LocalProvider) Close() error {
	return nil
}
