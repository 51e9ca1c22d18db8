package service

import (
	"github.com/dastarkhwan/backend/internal/domain"
)

// AreaRepository is re-exported from domain for convenience
type AreaRepository = domain.AreaRepository
