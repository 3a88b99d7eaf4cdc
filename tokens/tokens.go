// Package tokens counts prompt tokens with a tiktoken vocabulary, degrading to
// a character-based estimate whenever the vocabulary cannot be loaded.
package tokens

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultModel is the vocabulary used when none is configured.
const DefaultModel = "gpt-4o-mini"

// HeuristicModel is reported as the model of approximate counts.
const HeuristicModel = "heuristic"

// Info is the result of a count.
type Info struct {
	Tokens      int    `json:"tokens"`
	Model       string `json:"model"`
	Approximate bool   `json:"approximate"`
}

// Counter counts tokens in a string. Implementations never fail.
type Counter interface {
	Count(text string) Info
}

// Encoder is the subset of *tiktoken.Tiktoken used here.
type Encoder interface {
	Encode(text string, allowedSpecial []string, disallowedSpecial []string) []int
}

// Loader obtains the encoder for a model.
type Loader func(model string) (Encoder, error)

// TiktokenLoader loads a vocabulary through tiktoken-go.
func TiktokenLoader(model string) (Encoder, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, err
	}
	return enc, nil
}

// Tokenizer counts tokens for one model. The vocabulary is loaded on first
// use; a Tokenizer is meant to be built once and shared.
type Tokenizer struct {
	model string
	load  Loader

	once sync.Once
	enc  Encoder
	err  error

	mu sync.Mutex
}

// New returns a Tokenizer for model backed by tiktoken-go.
func New(model string) *Tokenizer {
	return NewWithLoader(model, TiktokenLoader)
}

// NewWithLoader returns a Tokenizer that obtains its encoder from load.
func NewWithLoader(model string, load Loader) *Tokenizer {
	if model == "" {
		model = DefaultModel
	}
	return &Tokenizer{model: model, load: load}
}

func (t *Tokenizer) encoder() (Encoder, error) {
	t.once.Do(func() {
		defer func() {
			if r := recover(); r != nil {
				t.enc, t.err = nil, fmt.Errorf("failed to load tokenizer for model %q: %v", t.model, r)
			}
		}()
		if t.load == nil {
			t.err = fmt.Errorf("no tokenizer loader for model %q", t.model)
			return
		}
		enc, err := t.load(t.model)
		if err != nil {
			t.err = fmt.Errorf("failed to get tokenizer for model %q: %w", t.model, err)
			return
		}
		t.enc = enc
	})
	return t.enc, t.err
}

// Err reports why the exact vocabulary is unavailable, or nil.
func (t *Tokenizer) Err() error {
	_, err := t.encoder()
	return err
}

// Count returns the exact token count, or the heuristic estimate if the
// vocabulary could not be loaded.
func (t *Tokenizer) Count(text string) Info {
	enc, err := t.encoder()
	if err != nil || enc == nil {
		return Estimate(text)
	}
	t.mu.Lock()
	n := len(enc.Encode(text, nil, nil))
	t.mu.Unlock()
	return Info{Tokens: n, Model: t.model}
}

// Heuristic is a Counter that always estimates.
type Heuristic struct{}

// Count implements Counter.
func (Heuristic) Count(text string) Info { return Estimate(text) }

// Estimate approximates the token count as one token per four characters,
// rounded up.
func Estimate(text string) Info {
	n := utf8.RuneCountInString(text)
	return Info{Tokens: (n + 3) / 4, Model: HeuristicModel, Approximate: true}
}
