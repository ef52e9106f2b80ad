package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "agridynamic/internal/errors"
	"agridynamic/internal/model"
)

func TestVolunteerService_Create(t *testing.T) {
	tests := []struct {
		name          string
		input         VolunteerInput
		createErr     error
		expectCreate  bool
		expectedError error
	}{
		{
			name:         "valid",
			input:        VolunteerInput{FirstName: ptr("Ana"), LastName: ptr("Diaz"), Email: ptr("ana@x.com")},
			expectCreate: true,
		},
		{
			name:          "duplicate email",
			input:         VolunteerInput{FirstName: ptr("Ana"), LastName: ptr("Diaz"), Email: ptr("ana@x.com")},
			createErr:     gorm.ErrDuplicatedKey,
			expectCreate:  true,
			expectedError: ErrEmailRegistered,
		},
		{
			name:          "missing last name",
			input:         VolunteerInput{FirstName: ptr("Ana"), Email: ptr("ana@x.com")},
			expectedError: apperrors.Validation(apperrors.MissingFieldsMessage([]string{"lastName"})),
		},
		{
			name:          "bad email",
			input:         VolunteerInput{FirstName: ptr("Ana"), LastName: ptr("Diaz"), Email: ptr("ana")},
			expectedError: apperrors.Validation("Please provide valid values for: email."),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockVolunteerRepository)
			if tt.expectCreate {
				repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Volunteer")).Return(tt.createErr)
			}

			volunteer, err := NewVolunteerService(repo).Create(context.Background(), tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, volunteer)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "Ana", volunteer.FirstName)
				assert.Equal(t, "Diaz", volunteer.LastName)
				assert.Equal(t, "ana@x.com", volunteer.Email)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestVolunteerService_UpdateAndDelete(t *testing.T) {
	id := uuid.New()

	t.Run("partial update", func(t *testing.T) {
		repo := new(MockVolunteerRepository)
		repo.On("FindByID", mock.Anything, id).Return(&model.Volunteer{ID: id, FirstName: "Ana", LastName: "Diaz", Email: "ana@x.com"}, nil)
		repo.On("Update", mock.Anything, mock.Anything).Return(nil)

		v, err := NewVolunteerService(repo).Update(context.Background(), id.String(), VolunteerInput{LastName: ptr("Ruiz")})

		require.NoError(t, err)
		assert.Equal(t, "Ana", v.FirstName)
		assert.Equal(t, "Ruiz", v.LastName)
	})

	t.Run("update to taken email", func(t *testing.T) {
		repo := new(MockVolunteerRepository)
		repo.On("FindByID", mock.Anything, id).Return(&model.Volunteer{ID: id, FirstName: "Ana", LastName: "Diaz", Email: "ana@x.com"}, nil)
		repo.On("Update", mock.Anything, mock.Anything).Return(gorm.ErrDuplicatedKey)

		_, err := NewVolunteerService(repo).Update(context.Background(), id.String(), VolunteerInput{Email: ptr("ben@x.com")})
		assert.ErrorIs(t, err, ErrEmailRegistered)
	})

	t.Run("delete missing", func(t *testing.T) {
		repo := new(MockVolunteerRepository)
		repo.On("Delete", mock.Anything, id).Return(gorm.ErrRecordNotFound)

		err := NewVolunteerService(repo).Delete(context.Background(), id.String())
		assert.ErrorIs(t, err, ErrVolunteerNotFound)
	})

	t.Run("get invalid id", func(t *testing.T) {
		_, err := NewVolunteerService(new(MockVolunteerRepository)).Get(context.Background(), "123")
		assert.ErrorIs(t, err, apperrors.InvalidIdentifier("Volunteer"))
	})
}
