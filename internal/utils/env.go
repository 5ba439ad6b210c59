package utils

import (
	"os"
	"strings"

	"github.com/yungbote/payerdesk/internal/platform/logger"
)

func GetEnv(key, defaultVal string, log *logger.Logger) string {
	if log != nil {
		log = log.With("env_var", key)
	}
	val, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(val) == "" {
		if log != nil {
			log.Debug("Environment variable not found, using default", "default", defaultVal)
		}
		return defaultVal
	}
	if log != nil {
		shown := val
		if isSecretKey(key) {
			shown = "[set]"
		}
		log.Debug("Environment variable found, using environment", "environment", shown)
	}
	return strings.TrimSpace(val)
}

func isSecretKey(key string) bool {
	k := strings.ToLower(key)
	return strings.Contains(k, "password") || strings.Contains(k, "secret") || strings.Contains(k, "token")
}
