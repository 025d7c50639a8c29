package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorCheckers(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{"unknown item", NewUnknownItemError("id", 7), IsUnknownItem, true},
		{"wrapped unknown item", fmt.Errorf("seed: %w", NewUnknownItemError("id", 7)), IsUnknownItem, true},
		{"twice wrapped unknown item", fmt.Errorf("a: %w", fmt.Errorf("b: %w", NewUnknownItemError("name", "x"))), IsUnknownItem, true},
		{"mapping inconsistency", NewMappingInconsistencyError("%d rows", 3), IsMappingInconsistency, true},
		{"wrapped mapping inconsistency", fmt.Errorf("bootstrap: %w", NewMappingInconsistencyError("gap")), IsMappingInconsistency, true},
		{"degenerate embedding", fmt.Errorf("build: %w", NewDegenerateEmbeddingError(2, "zero norm")), IsDegenerateEmbedding, true},
		{"different code", NewUnknownItemError("id", 7), IsMappingInconsistency, false},
		{"plain error", errors.New("boom"), IsUnknownItem, false},
		{"nil", nil, IsUnknownItem, false},
		{"store not found", fmt.Errorf("get: %w", ErrStoreNotFound), IsStoreNotFound, true},
		{"not found from another module", NewDomainError(ModuleArtifact, ErrorCodeNotFound, "x"), IsStoreNotFound, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.check(tt.err); got != tt.want {
				t.Errorf("check(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestGetDomainError(t *testing.T) {
	err := fmt.Errorf("wrap: %w", NewUnknownItemError("index", 9))
	d := GetDomainError(err)
	if d == nil {
		t.Fatal("GetDomainError() = nil")
	}
	if d.Module != ModuleCatalog || d.Code != ErrorCodeUnknownItem {
		t.Errorf("GetDomainError() = %+v", d)
	}
	if GetDomainError(errors.New("plain")) != nil {
		t.Error("plain error is not a DomainError")
	}
}
