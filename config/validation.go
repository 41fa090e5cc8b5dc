package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in one pass
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, ve := range e {
		msgs = append(msgs, ve.Error())
	}
	return strings.Join(msgs, "\n")
}

// production requires credentials that development can run without
var productionRequired = []string{
	"DB_PASSWORD",
	"LLM_API_KEY",
	"EMBEDDING_API_KEY",
	"RERANK_API_URL",
}

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors

	required := func(field, value string) {
		if strings.TrimSpace(value) == "" {
			errs = append(errs, ValidationError{Field: field, Message: "is required"})
		}
	}
	positive := func(field string, value int) {
		if value <= 0 {
			errs = append(errs, ValidationError{Field: field, Message: "must be greater than zero"})
		}
	}

	required("SERVER_PORT", cfg.ServerPort)

	switch cfg.DBDriver {
	case "postgres":
		required("DB_HOST", cfg.DBHost)
		required("DB_PORT", cfg.DBPort)
		required("DB_USER", cfg.DBUser)
		required("DB_NAME", cfg.DBName)
	case "sqlite":
		required("SQLITE_PATH", cfg.SQLitePath)
	default:
		errs = append(errs, ValidationError{Field: "DB_DRIVER", Message: fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}

	positive("CANDIDATE_LIMIT", cfg.CandidateLimit)
	positive("RERANK_TOP_K", cfg.RerankTopK)
	positive("CHOICE_COUNT", cfg.ChoiceCount)
	positive("PRODUCT_SEARCH_LIMIT", cfg.ProductSearchLimit)
	positive("PRODUCT_MATCHES", cfg.ProductMatches)
	positive("MATCH_WORKERS", cfg.MatchWorkers)
	positive("URL_CACHE_SIZE", cfg.URLCacheSize)

	if cfg.ProductMatches > cfg.ProductSearchLimit {
		errs = append(errs, ValidationError{Field: "PRODUCT_MATCHES", Message: "cannot exceed PRODUCT_SEARCH_LIMIT"})
	}

	if GetEnvironment() == Production {
		values := map[string]string{
			"DB_PASSWORD":       cfg.DBPassword,
			"LLM_API_KEY":       cfg.LLMAPIKey,
			"EMBEDDING_API_KEY": cfg.EmbeddingAPIKey,
			"RERANK_API_URL":    cfg.RerankAPIURL,
		}
		for _, field := range productionRequired {
			required(field, values[field])
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
