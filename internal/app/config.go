package app

import (
	"strings"

	"github.com/yungbote/payerdesk/internal/platform/logger"
	"github.com/yungbote/payerdesk/internal/utils"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins []string
	// Expr-lang rules over score, same_id and same_state; blank uses the defaults.
	MatchRule  string
	ReviewRule string
	// CacheEnabled is true when REDIS_ADDR is set.
	CacheEnabled bool
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Port:         utils.GetEnv("PORT", "8080", log),
		Environment:  utils.GetEnv("APP_ENV", "development", log),
		CORSOrigins:  splitList(utils.GetEnv("CORS_ALLOWED_ORIGINS", "", log)),
		MatchRule:    utils.GetEnv("MATCH_RULE", "", log),
		ReviewRule:   utils.GetEnv("REVIEW_RULE", "", log),
		CacheEnabled: utils.GetEnv("REDIS_ADDR", "", log) != "",
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
