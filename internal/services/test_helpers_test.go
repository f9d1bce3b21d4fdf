package services_test

import (
	"github.com/cogstack/cogstack-api/pkg/logger"
	"go.uber.org/zap"
)

func init() {
	logger.SetLogger(zap.NewNop())
}
