package shared_test

import (
	"testing"
	"time"

	"beautybar/shared"
	"beautybar/shared/constant"
	"beautybar/shared/dto"
)

func boolPtr(b bool) *bool {
	return &b
}

func TestConvertStringToBool(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *bool
	}{
		{
			name:     "empty string returns nil",
			input:    "",
			expected: nil,
		},
		{
			name:     "valid true string",
			input:    "true",
			expected: boolPtr(true),
		},
		{
			name:     "valid false string",
			input:    "false",
			expected: boolPtr(false),
		},
		{
			name:     "valid 1 string",
			input:    "1",
			expected: boolPtr(true),
		},
		{
			name:     "valid 0 string",
			input:    "0",
			expected: boolPtr(false),
		},
		{
			name:     "valid T string",
			input:    "T",
			expected: boolPtr(true),
		},
		{
			name:     "valid FALSE string",
			input:    "FALSE",
			expected: boolPtr(false),
		},
		{
			name:     "invalid string returns nil",
			input:    "invalid",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := shared.ConvertStringToBool(tt.input)

			if tt.expected == nil {
				if result != nil {
					t.Errorf("expected nil, got %v", *result)
				}
			} else {
				if result == nil {
					t.Errorf("expected %v, got nil", *tt.expected)
				} else if *result != *tt.expected {
					t.Errorf("expected %v, got %v", *tt.expected, *result)
				}
			}
		})
	}
}

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		limit    int
		expected int
	}{
		{
			name:     "zero total returns 1",
			total:    0,
			limit:    10,
			expected: 1,
		},
		{
			name:     "zero limit returns 1",
			total:    100,
			limit:    0,
			expected: 1,
		},
		{
			name:     "negative limit returns 1",
			total:    100,
			limit:    -5,
			expected: 1,
		},
		{
			name:     "exact division",
			total:    100,
			limit:    10,
			expected: 10,
		},
		{
			name:     "division with remainder",
			total:    101,
			limit:    10,
			expected: 11,
		},
		{
			name:     "limit greater than total",
			total:    5,
			limit:    10,
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := shared.CalculateTotalPage(tt.total, tt.limit)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestTransformFields(t *testing.T) {
	type patch struct {
		Name       string   `db:"name"`
		Category   *string  `db:"category"`
		Price      *float64 `db:"price"`
		EmptyField string   `db:"empty_field"`
		NoDBTag    string
	}

	category := "Nails"
	price := 42.5

	tests := []struct {
		name     string
		data     patch
		expected map[string]any
	}{
		{
			name: "populated fields keyed by db tag",
			data: patch{
				Name:     "Gel Manicure",
				Category: &category,
				Price:    &price,
				NoDBTag:  "ignored",
			},
			expected: map[string]any{
				"name":     "Gel Manicure",
				"category": "Nails",
				"price":    42.5,
			},
		},
		{
			name:     "all zero values",
			data:     patch{},
			expected: map[string]any{},
		},
		{
			name: "partial patch",
			data: patch{Name: "Classic Facial"},
			expected: map[string]any{
				"name": "Classic Facial",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := shared.TransformFields(tt.data)

			if result[constant.FieldModifiedAt] == nil {
				t.Error("expected modified_at to be set")
			}

			if _, ok := result[constant.FieldModifiedAt].(time.Time); !ok {
				t.Errorf("expected modified_at to be a time.Time, got %T", result[constant.FieldModifiedAt])
			}

			for key, want := range tt.expected {
				if result[key] != want {
					t.Errorf("expected %s to be %v, got %v", key, want, result[key])
				}
			}

			// Pointer fields stay absent until set, zero-valued plain fields too.
			if len(result) != len(tt.expected)+1 {
				t.Errorf("expected %d fields plus modified_at, got %d", len(tt.expected), len(result))
			}
		})
	}
}

func TestFilterByID(t *testing.T) {
	filter := shared.FilterByID("svc-1", "id", "services")

	if len(filter.Filters) != 1 {
		t.Fatalf("expected one filter, got %d", len(filter.Filters))
	}

	f, ok := filter.Filters[0].(dto.Filter)
	if !ok {
		t.Fatalf("expected dto.Filter, got %T", filter.Filters[0])
	}

	if f.Field != "id" || f.Value != "svc-1" || f.Table != "services" {
		t.Errorf("unexpected filter: %+v", f)
	}

	if f.Operator != dto.FilterOperatorEq {
		t.Errorf("expected equality operator, got %v", f.Operator)
	}
}

func TestBuildCacheKey(t *testing.T) {
	if got := shared.BuildCacheKey("service:get", "svc-1"); got != "service:get:svc-1" {
		t.Errorf("unexpected cache key: %s", got)
	}
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 2, Limit: 10, SortBy: "name", SortDir: dto.SortDirAsc}

	keyA := shared.BuildCacheKeyWithQuery("service:gets", params, dto.FilterGroup{})
	keyB := shared.BuildCacheKeyWithQuery("service:gets", dto.QueryParams{Page: 3, Limit: 10}, dto.FilterGroup{})

	if keyA == keyB {
		t.Error("expected distinct listings to cache under distinct keys")
	}
}
