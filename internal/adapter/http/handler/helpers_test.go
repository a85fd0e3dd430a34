package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iho/evenly/internal/domain"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"group not found", domain.ErrGroupNotFound, http.StatusNotFound},
		{"expense not found", domain.ErrExpenseNotFound, http.StatusNotFound},
		{"settlement not found", domain.ErrSettlementNotFound, http.StatusNotFound},
		{"invalid amount", domain.ErrInvalidAmount, http.StatusBadRequest},
		{"invalid currency", domain.ErrInvalidCurrency, http.StatusBadRequest},
		{"empty split", domain.ErrEmptySplit, http.StatusBadRequest},
		{"self settlement", domain.ErrSamePayerPayee, http.StatusBadRequest},
		{"missing user", domain.ErrEmptyUser, http.StatusBadRequest},
		{"non member", domain.ErrNotGroupMember, http.StatusUnprocessableEntity},
		{"wrapped not found", errors.Join(errors.New("lookup"), domain.ErrGroupNotFound), http.StatusNotFound},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mapDomainError(tt.err))
		})
	}
}

func TestParseIntQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"present", "limit=25", 25},
		{"absent", "", 50},
		{"not a number", "limit=abc", 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/groups?"+tt.query, nil)
			assert.Equal(t, tt.want, parseIntQuery(req, "limit", 50))
		})
	}
}
