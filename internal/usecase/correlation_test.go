package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domainErrors "github.com/dormdeli/payment-service/internal/domain/errors"
	"github.com/dormdeli/payment-service/internal/usecase"
)

func TestExtractOrderID(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantErr error
	}{
		{
			name:    "bare order id",
			content: "ORD1001",
			want:    "ORD1001",
		},
		{
			name:    "order id inside note",
			content: "Thanh toan ORD1001",
			want:    "ORD1001",
		},
		{
			name:    "long prefix form",
			content: "chuyen khoan ORDER20250901 cam on",
			want:    "ORDER20250901",
		},
		{
			name:    "first matching token wins",
			content: "ORD1001 ORD2002",
			want:    "ORD1001",
		},
		{
			name:    "token with trailing text does not match",
			content: "ma don ORD1001X",
			want:    "ma don ORD1001X",
		},
		{
			name:    "no matching token falls back to whole note",
			content: "  thanh toan don hang  ",
			want:    "thanh toan don hang",
		},
		{
			name:    "empty note",
			content: "",
			wantErr: domainErrors.ErrEmptyTransferContent,
		},
		{
			name:    "whitespace only note",
			content: "   \t ",
			wantErr: domainErrors.ErrEmptyTransferContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := usecase.ExtractOrderID(tt.content)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
