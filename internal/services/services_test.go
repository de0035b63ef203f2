package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ahmetcoskunkizilkaya/accessgate/internal/access"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/models"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/storage"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/storage/mocks"
)

type startRecorder struct {
	started []string
}

func (r *startRecorder) Start(username string) *access.Task {
	r.started = append(r.started, username)
	return nil
}

func validInput() RegisterInput {
	return RegisterInput{
		Name:     "Ana",
		Surname:  "Pop",
		CNP:      "1900101123456",
		IDCard:   "RX123456",
		Phone:    "0712345678",
		Email:    "Ana.Pop@Example.com",
		Username: "anapop",
		Password: "secret",
		City:     "Cluj",
	}
}

func TestValidateCNP(t *testing.T) {
	cases := map[string]bool{
		"1900101123456":  true,
		"0000000000000":  true,
		"190010112345":   false,
		"19001011234567": false,
		"190010112345a":  false,
		" 900101123456":  false,
		"":               false,
		"１９００１０１１２３４５６": false,
	}
	for cnp, ok := range cases {
		err := ValidateCNP(cnp)
		if ok {
			assert.NoError(t, err, cnp)
			continue
		}
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, cnp)
		assert.Equal(t, "CNP must have 13 digits.", verr.Message)
	}
}

func TestValidatePhone(t *testing.T) {
	cases := map[string]bool{
		"0712345678":  true,
		"071234567":   false,
		"07123456789": false,
		"07-1234567":  false,
		"+407123456":  false,
	}
	for phone, ok := range cases {
		err := ValidatePhone(phone)
		if ok {
			assert.NoError(t, err, phone)
			continue
		}
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, phone)
		assert.Equal(t, "Phone number must have 10 digits.", verr.Message)
	}
}

func TestValidateEmail(t *testing.T) {
	cases := map[string]bool{
		"a@b.c":             true,
		"ana.pop@mail.ro":   true,
		"a@b.c trailing @@": true,
		"a@b":               false,
		"@b.c":              false,
		"a@.c":              false,
		"a@b.":              false,
		"plain":             false,
	}
	for email, ok := range cases {
		if ok {
			assert.NoError(t, ValidateEmail(email), email)
		} else {
			assert.Error(t, ValidateEmail(email), email)
		}
	}
}

func TestRegisterStoresParticipantAndStartsEnrollment(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockParticipantStore(ctrl)
	starts := &startRecorder{}
	svc := NewRegistrationService(store, starts, nil)

	in := validInput()
	store.EXPECT().
		FindByUniqueFields(gomock.Any(), in.CNP, in.Phone, "ana.pop@example.com", in.IDCard, in.Username).
		Return(nil, storage.ErrNotFound)
	store.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *models.Participant) error {
			assert.Equal(t, "ana.pop@example.com", p.Email)
			assert.Empty(t, p.TokenID)
			assert.NotEqual(t, "secret", p.PasswordHash)
			assert.True(t, strings.HasPrefix(p.PasswordHash, "$2"))
			return nil
		})

	p, _, err := svc.Register(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "anapop", p.Username)
	assert.Equal(t, []string{"anapop"}, starts.started)
}

func TestRegisterRejectsInvalidFieldsWithoutTouchingStore(t *testing.T) {
	cases := map[string]struct {
		mutate func(*RegisterInput)
		field  string
	}{
		"short cnp":   {func(in *RegisterInput) { in.CNP = "123" }, "cnp"},
		"alpha phone": {func(in *RegisterInput) { in.Phone = "07abcdefgh" }, "phone"},
		"bad email":   {func(in *RegisterInput) { in.Email = "nobody" }, "email"},
		"no username": {func(in *RegisterInput) { in.Username = "" }, "username"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := mocks.NewMockParticipantStore(ctrl)
			starts := &startRecorder{}
			svc := NewRegistrationService(store, starts, nil)

			in := validInput()
			tc.mutate(&in)
			_, _, err := svc.Register(context.Background(), in)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
			assert.Empty(t, starts.started)
		})
	}
}

func TestRegisterValidatesCNPFirst(t *testing.T) {
	svc := NewRegistrationService(mocks.NewMockParticipantStore(gomock.NewController(t)), &startRecorder{}, nil)
	in := validInput()
	in.CNP, in.Phone, in.Email = "1", "2", "3"

	_, _, err := svc.Register(context.Background(), in)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "cnp", verr.Field)
}

func TestRegisterDuplicate(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockParticipantStore(ctrl)
	starts := &startRecorder{}
	svc := NewRegistrationService(store, starts, nil)

	store.EXPECT().
		FindByUniqueFields(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&models.Participant{Username: "someone"}, nil)

	_, _, err := svc.Register(context.Background(), validInput())
	require.ErrorIs(t, err, storage.ErrDuplicate)
	assert.Empty(t, starts.started)
}

func TestRegisterInsertRaceIsDuplicate(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockParticipantStore(ctrl)
	starts := &startRecorder{}
	svc := NewRegistrationService(store, starts, nil)

	store.EXPECT().
		FindByUniqueFields(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, storage.ErrNotFound)
	store.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(storage.ErrDuplicate)

	_, _, err := svc.Register(context.Background(), validInput())
	require.ErrorIs(t, err, storage.ErrDuplicate)
	assert.Empty(t, starts.started)
}

func TestRegisterStoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockParticipantStore(ctrl)
	svc := NewRegistrationService(store, &startRecorder{}, nil)

	store.EXPECT().
		FindByUniqueFields(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection refused"))

	_, _, err := svc.Register(context.Background(), validInput())
	require.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrDuplicate)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestLogin(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockParticipantStore(ctrl)
	svc := NewAuthService(store)
	ctx := context.Background()

	store.EXPECT().FindByCredentials(gomock.Any(), "anapop", "secret").
		Return(&models.Participant{Username: "anapop"}, nil)
	store.EXPECT().FindByCredentials(gomock.Any(), "anapop", "wrong").
		Return(nil, storage.ErrInvalidCredentials)
	store.EXPECT().FindByCredentials(gomock.Any(), "anapop", "boom").
		Return(nil, errors.New("db down"))

	p, err := svc.Login(ctx, "anapop", "secret")
	require.NoError(t, err)
	assert.Equal(t, "anapop", p.Username)

	_, err = svc.Login(ctx, "anapop", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "anapop", "boom")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
