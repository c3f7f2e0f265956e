package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/eventlive/eventlive-backend/internal/storage"
)

// KeywordIntent buckets free text on the direct webhook path.
type KeywordIntent string

const (
	KeywordCommand  KeywordIntent = "command"
	KeywordLocation KeywordIntent = "location"
	KeywordFAQ      KeywordIntent = "faq"
	KeywordOther    KeywordIntent = "other"
)

var (
	commandPattern    = regexp.MustCompile(`(입장줄|대기시간|주차|줄)`)
	locationPattern   = regexp.MustCompile(`(화장실|흡연장|부스|푸드|먹거리|보관|분실물)`)
	coordinatePattern = regexp.MustCompile(`(-?\d+\.\d+)\s*,\s*(-?\d+\.\d+)`)
	faqKeywords       = []string{"티켓", "분실", "돗자리", "반입"}
)

// ClassifyKeywords checks command keywords, then location keywords, then
// FAQ keywords.
func ClassifyKeywords(text string) KeywordIntent {
	switch {
	case commandPattern.MatchString(text):
		return KeywordCommand
	case locationPattern.MatchString(text):
		return KeywordLocation
	case containsAny(text, faqKeywords):
		return KeywordFAQ
	default:
		return KeywordOther
	}
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// statusKeyFor picks which status a command-intent question asks about.
func statusKeyFor(text string) string {
	switch {
	case strings.Contains(text, "줄") || strings.Contains(text, "대기"):
		return "입장줄"
	case strings.Contains(text, "주차"):
		return "주차"
	default:
		return "입장줄"
	}
}

// locationCategory maps text to the operator-maintained location category.
func locationCategory(text string) string {
	switch {
	case strings.Contains(text, "화장실"):
		return "화장실"
	case strings.Contains(text, "부스"):
		return "부스"
	case strings.Contains(text, "푸드") || strings.Contains(text, "먹거리"):
		return "푸드"
	default:
		return "기타"
	}
}

// FieldResponder answers user questions from operator-maintained live data.
type FieldResponder struct {
	fields storage.FieldStore
}

func NewFieldResponder(fields storage.FieldStore) *FieldResponder {
	return &FieldResponder{fields: fields}
}

// Reply classifies text and renders the answer.
func (r *FieldResponder) Reply(ctx context.Context, text string) (string, error) {
	switch ClassifyKeywords(text) {
	case KeywordCommand:
		key := statusKeyFor(text)
		val, ok, err := r.fields.GetStatus(ctx, key)
		if err != nil {
			return "", newError(ErrorPersistence, "get status", err)
		}
		if !ok || val == "" {
			return "아직 등록된 현장 정보가 없어요. 운영진에 연결해드릴게요.", nil
		}
		return fmt.Sprintf("현재 %s 상태는 '%s' 입니다.", key, val), nil

	case KeywordFAQ:
		faqs, err := r.fields.ListFAQs(ctx)
		if err != nil {
			return "", newError(ErrorPersistence, "list faqs", err)
		}
		for _, rec := range faqs {
			if rec.Matches(text) {
				return rec.Answer, nil
			}
		}
		return "관련 안내를 찾지 못했어요. 운영진에 연결해드릴게요.", nil

	case KeywordLocation:
		m := coordinatePattern.FindStringSubmatch(text)
		if m == nil {
			return "좌표를 함께 보내주시면 가까운 위치를 찾아드려요. 예) '화장실 37.55,127.02'", nil
		}
		lat, _ := strconv.ParseFloat(m[1], 64)
		lng, _ := strconv.ParseFloat(m[2], 64)

		category := locationCategory(text)
		points, err := r.fields.Locations(ctx, category)
		if err != nil {
			return "", newError(ErrorPersistence, "list locations", err)
		}
		spot, ok := Nearest(points, lat, lng)
		if !ok {
			return "등록된 위치 정보가 없어요. 운영진에 문의해 주세요.", nil
		}
		return fmt.Sprintf("가까운 %s: %s (lat %s, lng %s)",
			category, spot.Name, formatCoordinate(spot.Lat), formatCoordinate(spot.Lng)), nil

	default:
		return "무엇을 도와드릴까요? 예) '입장 줄', '주차', '티켓 분실'", nil
	}
}
