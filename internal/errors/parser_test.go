package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestParseError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		context  string
		wantCode string
	}{
		{
			name:     "record not found",
			err:      gorm.ErrRecordNotFound,
			context:  "get deal",
			wantCode: ResourceNotFound,
		},
		{
			name:     "wrapped record not found",
			err:      fmt.Errorf("lookup: %w", gorm.ErrRecordNotFound),
			context:  "get store",
			wantCode: ResourceNotFound,
		},
		{
			name:     "duplicate category path",
			err:      errors.New(`duplicate key value violates unique constraint "idx_categories_path"`),
			context:  "create category",
			wantCode: CategoryDuplicatePath,
		},
		{
			name:     "duplicate user uid sqlite",
			err:      errors.New("UNIQUE constraint failed: users.uid"),
			context:  "create user",
			wantCode: UserDuplicateIdentity,
		},
		{
			name:     "duplicate primary key",
			err:      errors.New(`duplicate key value violates unique constraint "deals_pkey"`),
			context:  "create deal",
			wantCode: ResourceAlreadyExists,
		},
		{
			name:     "foreign key violation",
			err:      errors.New(`insert or update on table "deals" violates foreign key constraint "fk_deals_store"`),
			context:  "create deal",
			wantCode: DealDanglingReference,
		},
		{
			name:     "not null violation",
			err:      errors.New(`null value in column "title" violates not-null constraint`),
			context:  "create deal",
			wantCode: ValidationRequired,
		},
		{
			name:     "connection refused",
			err:      errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"),
			context:  "list deals",
			wantCode: InternalDatabaseError,
		},
		{
			name:     "unknown error",
			err:      errors.New("something unexpected"),
			context:  "update store",
			wantCode: InternalServerError,
		},
		{
			name:     "nil error",
			err:      nil,
			context:  "",
			wantCode: InternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseError(tt.err, tt.context)

			assert.Equal(t, tt.wantCode, info.Code)
			assert.NotEmpty(t, info.Message)
		})
	}
}

func TestParseError_NotFoundMessages(t *testing.T) {
	tests := []struct {
		context string
		want    string
	}{
		{"get deal", "Deal not found"},
		{"get category", "Category not found"},
		{"resolve tag", "Category not found"},
		{"get store", "Store not found"},
		{"get user", "User not found"},
		{"something else", "The requested record was not found"},
	}

	for _, tt := range tests {
		t.Run(tt.context, func(t *testing.T) {
			info := ParseError(gorm.ErrRecordNotFound, tt.context)

			assert.Equal(t, tt.want, info.Message)
		})
	}
}

func TestStatusForCode(t *testing.T) {
	assert.Equal(t, 404, statusForCode(ResourceNotFound))
	assert.Equal(t, 409, statusForCode(CategoryDuplicatePath))
	assert.Equal(t, 409, statusForCode(UserDuplicateIdentity))
	assert.Equal(t, 400, statusForCode(DealDanglingReference))
	assert.Equal(t, 400, statusForCode(ValidationRequired))
	assert.Equal(t, 500, statusForCode(InternalServerError))
	assert.Equal(t, 500, statusForCode(InternalDatabaseError))
}
