package service

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/ncasas/billetera-backend/internal/domain"
	"github.com/ncasas/billetera-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTagService() (*TagService, *testutil.MockTagRepository, uuid.UUID, uuid.UUID) {
	tagRepo := testutil.NewMockTagRepository()
	walletRepo := testutil.NewMockWalletRepository()
	walletID := uuid.New()
	profileID := uuid.New()
	walletRepo.AddWallet(&domain.Wallet{ID: walletID, Name: "Casa"}, profileID)
	return NewTagService(tagRepo, walletRepo), tagRepo, walletID, profileID
}

func TestTagService_CreateTag(t *testing.T) {
	svc, _, walletID, profileID := newTestTagService()

	created, err := svc.CreateTag(profileID, walletID, "  viaje  ")
	require.NoError(t, err)
	assert.Equal(t, "viaje", created.Name)
	assert.NotEqual(t, uuid.Nil, created.ID)
}

func TestTagService_CreateTag_Validation(t *testing.T) {
	svc, _, walletID, profileID := newTestTagService()

	_, err := svc.CreateTag(profileID, walletID, "   ")
	assert.ErrorIs(t, err, domain.ErrNameRequired)

	_, err = svc.CreateTag(profileID, walletID, strings.Repeat("x", domain.MaxTagNameLength+1))
	assert.ErrorIs(t, err, domain.ErrNameTooLong)

	_, err = svc.CreateTag(uuid.New(), walletID, "viaje")
	assert.ErrorIs(t, err, domain.ErrNotWalletMember)
}

func TestTagService_GetTags_SortedByName(t *testing.T) {
	svc, tagRepo, walletID, profileID := newTestTagService()

	tagRepo.AddTag(walletID, &domain.Tag{Name: "viaje"})
	tagRepo.AddTag(walletID, &domain.Tag{Name: "auto"})
	tagRepo.AddTag(uuid.New(), &domain.Tag{Name: "otro"})

	tags, err := svc.GetTags(profileID, walletID)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "auto", tags[0].Name)
	assert.Equal(t, "viaje", tags[1].Name)
}

func TestTagService_DeleteTag(t *testing.T) {
	svc, tagRepo, walletID, profileID := newTestTagService()

	tag := &domain.Tag{Name: "viaje"}
	tagRepo.AddTag(walletID, tag)

	require.NoError(t, svc.DeleteTag(profileID, walletID, tag.ID))
	err := svc.DeleteTag(profileID, walletID, tag.ID)
	assert.ErrorIs(t, err, domain.ErrTagNotFound)
}
