package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventlive/eventlive-backend/internal/models"
	"github.com/eventlive/eventlive-backend/internal/storage"
)

func TestClassifyKeywords(t *testing.T) {
	for text, want := range map[string]KeywordIntent{
		"입장줄":        KeywordCommand,
		"대기시간 얼마나":   KeywordCommand,
		"주차":         KeywordCommand,
		"줄 길어요":      KeywordCommand,
		"화장실 분실물 주차": KeywordCommand,
		"흡연장 어디":     KeywordLocation,
		"분실물 보관소":    KeywordLocation,
		"먹거리":        KeywordLocation,
		"티켓 분실":      KeywordFAQ,
		"돗자리 반입 되나요": KeywordFAQ,
		"안녕하세요":      KeywordOther,
		"":           KeywordOther,
	} {
		assert.Equal(t, want, ClassifyKeywords(text), text)
	}
}

func TestFieldResponder_Status(t *testing.T) {
	ctx := context.Background()
	fields := storage.NewMemoryFieldStore()
	r := NewFieldResponder(fields)

	reply, err := r.Reply(ctx, "입장줄")
	require.NoError(t, err)
	assert.Equal(t, "아직 등록된 현장 정보가 없어요. 운영진에 연결해드릴게요.", reply)

	require.NoError(t, fields.SetStatus(ctx, "입장줄", "30분"))
	require.NoError(t, fields.SetStatus(ctx, "주차", "만석"))

	reply, err = r.Reply(ctx, "대기시간")
	require.NoError(t, err)
	assert.Equal(t, "현재 입장줄 상태는 '30분' 입니다.", reply)

	reply, err = r.Reply(ctx, "주차")
	require.NoError(t, err)
	assert.Equal(t, "현재 주차 상태는 '만석' 입니다.", reply)

	// "줄" takes precedence over "주차" when picking the key.
	reply, err = r.Reply(ctx, "주차 줄")
	require.NoError(t, err)
	assert.Equal(t, "현재 입장줄 상태는 '30분' 입니다.", reply)
}

func TestFieldResponder_FAQFirstMatchWins(t *testing.T) {
	ctx := context.Background()
	fields := storage.NewMemoryFieldStore()
	r := NewFieldResponder(fields)

	reply, err := r.Reply(ctx, "티켓 분실")
	require.NoError(t, err)
	assert.Equal(t, "관련 안내를 찾지 못했어요. 운영진에 연결해드릴게요.", reply)

	require.NoError(t, fields.AddFAQ(ctx, models.FaqRecord{Keywords: "돗자리", Answer: "돗자리 가능"}))
	require.NoError(t, fields.AddFAQ(ctx, models.FaqRecord{Keywords: " 티켓 , 분실", Answer: "매표소로 오세요"}))
	require.NoError(t, fields.AddFAQ(ctx, models.FaqRecord{Keywords: "티켓", Answer: "shadowed"}))

	reply, err = r.Reply(ctx, "티켓 분실")
	require.NoError(t, err)
	assert.Equal(t, "매표소로 오세요", reply)
}

func TestFieldResponder_Location(t *testing.T) {
	ctx := context.Background()
	fields := storage.NewMemoryFieldStore()
	r := NewFieldResponder(fields)

	reply, err := r.Reply(ctx, "화장실 어디")
	require.NoError(t, err)
	assert.Equal(t, "좌표를 함께 보내주시면 가까운 위치를 찾아드려요. 예) '화장실 37.55,127.02'", reply)

	reply, err = r.Reply(ctx, "화장실 37.55, 127.02")
	require.NoError(t, err)
	assert.Equal(t, "등록된 위치 정보가 없어요. 운영진에 문의해 주세요.", reply)

	require.NoError(t, fields.AddLocation(ctx, "화장실", models.LocationPoint{Name: "A1", Lat: 37.60, Lng: 127.10}))
	require.NoError(t, fields.AddLocation(ctx, "화장실", models.LocationPoint{Name: "A2", Lat: 37.55, Lng: 127.0}))

	reply, err = r.Reply(ctx, "화장실 37.55,127.02")
	require.NoError(t, err)
	assert.Equal(t, "가까운 화장실: A2 (lat 37.55, lng 127.0)", reply)

	require.NoError(t, fields.AddLocation(ctx, "기타", models.LocationPoint{Name: "locker", Lat: 1, Lng: 1}))
	reply, err = r.Reply(ctx, "보관 1.0,1.0")
	require.NoError(t, err)
	assert.Equal(t, "가까운 기타: locker (lat 1.0, lng 1.0)", reply)
}

func TestFieldResponder_Other(t *testing.T) {
	reply, err := NewFieldResponder(storage.NewMemoryFieldStore()).Reply(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "무엇을 도와드릴까요? 예) '입장 줄', '주차', '티켓 분실'", reply)
}
