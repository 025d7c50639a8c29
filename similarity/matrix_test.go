package similarity

import (
	"context"
	"math"
	"testing"

	"github.com/rushteam/playful/core"
)

func testEmbeddings() [][]float64 {
	return [][]float64{
		{1, 0, 0},
		{0.9, 0.1, 0},
		{0, 1, 0},
		{0, 0, 2},
		{-1, 0, 0},
	}
}

func TestBuild_CosineProperties(t *testing.T) {
	m, err := Build(context.Background(), testEmbeddings())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if m.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", m.Len())
	}

	for i := 0; i < m.Len(); i++ {
		if got := m.At(i, i); math.Abs(got-1) > Tolerance {
			t.Errorf("diagonal (%d,%d) = %v, want 1", i, i, got)
		}
		for j := 0; j < m.Len(); j++ {
			if m.At(i, j) != m.At(j, i) {
				t.Errorf("not symmetric at (%d,%d): %v vs %v", i, j, m.At(i, j), m.At(j, i))
			}
			if v := m.At(i, j); v < -1 || v > 1 {
				t.Errorf("(%d,%d) = %v out of [-1, 1]", i, j, v)
			}
		}
	}

	if got := m.At(0, 4); math.Abs(got+1) > Tolerance {
		t.Errorf("opposite vectors similarity = %v, want -1", got)
	}
	if got := m.At(0, 2); math.Abs(got) > Tolerance {
		t.Errorf("orthogonal vectors similarity = %v, want 0", got)
	}
	want := 0.9 / math.Sqrt(0.82)
	if got := m.At(0, 1); math.Abs(got-want) > Tolerance {
		t.Errorf("At(0,1) = %v, want %v", got, want)
	}
}

func TestBuild_Degenerate(t *testing.T) {
	tests := []struct {
		name       string
		embeddings [][]float64
		check      func(error) bool
	}{
		{
			name:       "zero norm",
			embeddings: [][]float64{{1, 0}, {0, 0}},
			check:      core.IsDegenerateEmbedding,
		},
		{
			name:       "nan value",
			embeddings: [][]float64{{1, 0}, {math.NaN(), 1}},
			check:      core.IsDegenerateEmbedding,
		},
		{
			name:       "dimension mismatch",
			embeddings: [][]float64{{1, 0}, {1}},
			check:      core.IsInvalidInput,
		},
		{
			name:       "empty",
			embeddings: nil,
			check:      core.IsInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Build(context.Background(), tt.embeddings)
			if err == nil {
				t.Fatalf("Build() = %v, want error", m)
			}
			if !tt.check(err) {
				t.Errorf("Build() error = %v, unexpected code", err)
			}
		})
	}
}

func TestFromRows(t *testing.T) {
	tests := []struct {
		name    string
		rows    [][]float64
		wantErr bool
	}{
		{
			name: "valid",
			rows: [][]float64{{1, 0.5}, {0.5, 1}},
		},
		{
			name:    "not square",
			rows:    [][]float64{{1, 0.5}, {0.5}},
			wantErr: true,
		},
		{
			name:    "asymmetric",
			rows:    [][]float64{{1, 0.5}, {0.2, 1}},
			wantErr: true,
		},
		{
			name:    "bad diagonal",
			rows:    [][]float64{{0.9, 0.5}, {0.5, 1}},
			wantErr: true,
		},
		{
			name:    "out of range",
			rows:    [][]float64{{1, 1.5}, {1.5, 1}},
			wantErr: true,
		},
		{
			name:    "infinite",
			rows:    [][]float64{{1, math.Inf(1)}, {math.Inf(1), 1}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromRows(tt.rows)
			if (err != nil) != tt.wantErr {
				t.Errorf("FromRows() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMatrix_RowsRoundTrip(t *testing.T) {
	m, err := Build(context.Background(), testEmbeddings())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	m2, err := FromRows(m.Rows())
	if err != nil {
		t.Fatalf("FromRows(Rows()) error = %v", err)
	}
	for i := 0; i < m.Len(); i++ {
		for j := 0; j < m.Len(); j++ {
			if m.At(i, j) != m2.At(i, j) {
				t.Fatalf("(%d,%d) = %v, want %v", i, j, m2.At(i, j), m.At(i, j))
			}
		}
	}
}

func TestMatrix_RowOutOfRange(t *testing.T) {
	m, err := FromRows([][]float64{{1}})
	if err != nil {
		t.Fatalf("FromRows() error = %v", err)
	}
	if _, err := m.Row(1); !core.IsUnknownItem(err) {
		t.Errorf("Row(1) error = %v, want UNKNOWN_ITEM", err)
	}
	if _, err := m.Row(-1); !core.IsUnknownItem(err) {
		t.Errorf("Row(-1) error = %v, want UNKNOWN_ITEM", err)
	}
}

func TestBuild_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Build(ctx, testEmbeddings()); err == nil {
		t.Error("Build() with cancelled context should fail")
	}
}
