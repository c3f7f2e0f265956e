package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventlive/eventlive-backend/internal/storage"
)

func newDirectService() *DirectService {
	fields := storage.NewMemoryFieldStore()
	return NewDirectService(NewOperatorConsole(fields), NewFieldResponder(fields), nil)
}

func TestDirectService_OperatorThenUser(t *testing.T) {
	ctx := context.Background()
	s := newDirectService()

	reply, err := s.Handle(ctx, ParseNode([]byte(`{"user":{"type":"operator"},"message":"/입장줄 30분"}`)))
	require.NoError(t, err)
	assert.Equal(t, DirectReply{Role: RoleOperator, Message: "[OK] 입장줄 = 30분"}, reply)

	reply, err = s.Handle(ctx, ParseNode([]byte(`{"user":{"id":"v"},"userChat":{"id":"uc-1"},"message":"입장 줄 얼마나?"}`)))
	require.NoError(t, err)
	assert.Equal(t, DirectReply{Role: RoleUser, Message: "현재 입장줄 상태는 '30분' 입니다.", UserChatID: "uc-1"}, reply)
}

func TestDirectService_OperatorPlainTextIsAnsweredAsUser(t *testing.T) {
	reply, err := newDirectService().Handle(context.Background(),
		ParseNode([]byte(`{"user":{"isOperator":true},"userChatId":"x","message":"안녕"}`)))
	require.NoError(t, err)
	assert.Equal(t, RoleUser, reply.Role)
	assert.Equal(t, "x", reply.UserChatID)
}

func TestDirectService_UserSlashIsNotACommand(t *testing.T) {
	reply, err := newDirectService().Handle(context.Background(),
		ParseNode([]byte(`{"user":{"type":"user"},"message":"/입장줄 0분"}`)))
	require.NoError(t, err)
	assert.Equal(t, RoleUser, reply.Role)
	assert.Equal(t, "아직 등록된 현장 정보가 없어요. 운영진에 연결해드릴게요.", reply.Message)
}
