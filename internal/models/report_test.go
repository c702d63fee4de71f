package models_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketgo/backend/internal/models"
)

func TestReportBeforeCreate_RequiresExactlyOneTarget(t *testing.T) {
	userID := uint(1)
	productID := uint(2)

	neither := models.Report{ReporterID: 1}
	assert.ErrorIs(t, neither.BeforeCreate(nil), models.ErrAmbiguousTarget)

	both := models.Report{ReporterID: 1, TargetUserID: &userID, TargetProductID: &productID}
	assert.ErrorIs(t, both.BeforeCreate(nil), models.ErrAmbiguousTarget)

	user := models.Report{ReporterID: 1, TargetUserID: &userID}
	assert.NoError(t, user.BeforeCreate(nil))

	product := models.Report{ReporterID: 1, TargetProductID: &productID}
	assert.NoError(t, product.BeforeCreate(nil))
}

func TestTargetRoundTrip(t *testing.T) {
	var r models.Report
	models.UserTarget(7).ApplyTo(&r)
	require.NotNil(t, r.TargetUserID)
	assert.Nil(t, r.TargetProductID)
	assert.Equal(t, models.UserTarget(7), models.TargetOf(&r))

	var p models.Report
	models.ProductTarget(9).ApplyTo(&p)
	require.NotNil(t, p.TargetProductID)
	assert.Nil(t, p.TargetUserID)
	assert.Equal(t, models.ProductTarget(9), models.TargetOf(&p))
}

func TestTargetValid(t *testing.T) {
	assert.True(t, models.UserTarget(1).Valid())
	assert.True(t, models.ProductTarget(1).Valid())
	assert.False(t, models.UserTarget(0).Valid())
	assert.False(t, models.Target{}.Valid())
	assert.False(t, models.Target{Kind: "room", ID: 1}.Valid())
}

func TestValidReportReason(t *testing.T) {
	for _, reason := range []string{
		models.ReasonProhibited, models.ReasonCounterfeit, models.ReasonMisleading,
		models.ReasonFraud, models.ReasonHarassment, models.ReasonOther,
	} {
		assert.True(t, models.ValidReportReason(reason), reason)
	}
	assert.False(t, models.ValidReportReason("spite"))
	assert.False(t, models.ValidReportReason(""))
}

func TestChatRoomBeforeCreate_FillsUUID(t *testing.T) {
	room := models.ChatRoom{}
	require.NoError(t, room.BeforeCreate(nil))
	_, err := uuid.Parse(room.RoomID)
	assert.NoError(t, err)

	preset := models.ChatRoom{RoomID: "fixed-id"}
	require.NoError(t, preset.BeforeCreate(nil))
	assert.Equal(t, "fixed-id", preset.RoomID)
}

func TestChatRoomHasParticipant(t *testing.T) {
	room := models.ChatRoom{Participants: []models.ChatParticipant{
		{UserID: 1}, {UserID: 2},
	}}
	assert.True(t, room.HasParticipant(1))
	assert.True(t, room.HasParticipant(2))
	assert.False(t, room.HasParticipant(3))
}

func TestValidProductStatus(t *testing.T) {
	for _, status := range []string{
		models.ProductAvailable, models.ProductReserved, models.ProductSold, models.ProductBlocked,
	} {
		assert.True(t, models.ValidProductStatus(status), status)
	}
	assert.False(t, models.ValidProductStatus("archived"))
	assert.False(t, models.ValidProductStatus(""))
}
