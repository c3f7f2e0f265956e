package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/eventlive/eventlive-backend/internal/models"
	"github.com/eventlive/eventlive-backend/internal/storage"
)

const (
	replyInquiryReceived = "문의가 접수되었어요. 최대한 빨리 답변드릴게요 🙏"
	replyPong            = "pong 🏓"
	replyHelp            = "명령어: /ping, /help, /history (최근 문의 5건), /inq <내용>"
	replyVenueHelp       = "원하시는 항목(화장실/무대/안내/부스/금지물품/분실물)을 붙여서 다시 말씀해 주세요."
)

// Venue is an event site addressed by a text prefix. RefLat/RefLng is the
// placeholder position used as "the user" for nearest lookups until real
// user coordinates are available.
type Venue struct {
	Prefix string
	ID     int
	RefLng float64
	RefLat float64
}

// DefaultVenues lists the known event sites in match order.
var DefaultVenues = []Venue{
	{Prefix: "대동제", ID: 1, RefLng: 0, RefLat: 0},
	{Prefix: "락페", ID: 2, RefLng: 126.0, RefLat: 37.0},
	{Prefix: "해키", ID: 3, RefLng: 0, RefLat: 0},
}

// VenueTopic is a suffix keyword asking for either a notice or a facility.
// Exactly one of Notice and Point is set.
type VenueTopic struct {
	Suffix   string
	Notice   models.NoticeKind
	Fallback string
	Point    models.PointType
	Label    string
}

// VenueTopics lists suffix keywords in match order.
var VenueTopics = []VenueTopic{
	{Suffix: "금지물품", Notice: models.NoticeProhibitedItems, Fallback: "등록된 금지물품 공지가 아직 없어요."},
	{Suffix: "분실물", Notice: models.NoticeLostItems, Fallback: "등록된 분실물 공지가 아직 없어요."},
	{Suffix: "화장실", Point: models.PointToilet, Label: "화장실"},
	{Suffix: "무대", Point: models.PointStage, Label: "무대"},
	{Suffix: "안내", Point: models.PointHelpdesk, Label: "안내데스크"},
	{Suffix: "부스", Point: models.PointBooth, Label: "부스"},
}

type VenueIntentKind int

const (
	VenueIntentInquiry VenueIntentKind = iota
	VenueIntentNotice
	VenueIntentFacility
	VenueIntentVenueHelp
	VenueIntentPing
	VenueIntentHelp
)

func (k VenueIntentKind) String() string {
	switch k {
	case VenueIntentNotice:
		return "notice"
	case VenueIntentFacility:
		return "facility"
	case VenueIntentVenueHelp:
		return "venue_help"
	case VenueIntentPing:
		return "ping"
	case VenueIntentHelp:
		return "help"
	default:
		return "inquiry"
	}
}

// VenueIntent is the result of ClassifyVenueIntent. Venue and Topic are set
// for the notice, facility and venue-help kinds.
type VenueIntent struct {
	Kind  VenueIntentKind
	Venue Venue
	Topic VenueTopic
}

// ClassifyVenueIntent maps channel chat text to an intent. A venue prefix
// wins over everything else; then /ping (exact, case-insensitive), then a
// /help prefix; anything else is a plain inquiry.
func ClassifyVenueIntent(text string, venues []Venue) VenueIntent {
	t := strings.TrimSpace(text)
	if t == "" {
		return VenueIntent{Kind: VenueIntentInquiry}
	}

	for _, v := range venues {
		if !strings.HasPrefix(t, v.Prefix) {
			continue
		}
		for _, topic := range VenueTopics {
			if !strings.HasSuffix(t, topic.Suffix) {
				continue
			}
			kind := VenueIntentFacility
			if topic.Notice != "" {
				kind = VenueIntentNotice
			}
			return VenueIntent{Kind: kind, Venue: v, Topic: topic}
		}
		return VenueIntent{Kind: VenueIntentVenueHelp, Venue: v}
	}

	lower := strings.ToLower(t)
	switch {
	case lower == "/ping":
		return VenueIntent{Kind: VenueIntentPing}
	case strings.HasPrefix(lower, "/help"):
		return VenueIntent{Kind: VenueIntentHelp}
	default:
		return VenueIntent{Kind: VenueIntentInquiry}
	}
}

// VenueRouter answers venue intents from stored notices and points.
type VenueRouter struct {
	store  storage.Store
	venues []Venue
}

func NewVenueRouter(store storage.Store, venues []Venue) *VenueRouter {
	if venues == nil {
		venues = DefaultVenues
	}
	return &VenueRouter{store: store, venues: venues}
}

// Reply classifies text and renders the answer.
func (r *VenueRouter) Reply(ctx context.Context, text string) (string, error) {
	intent := ClassifyVenueIntent(text, r.venues)

	switch intent.Kind {
	case VenueIntentNotice:
		notice, err := r.store.LatestNotice(ctx, intent.Venue.ID, intent.Topic.Notice)
		if errors.Is(err, storage.ErrNotFound) {
			return intent.Topic.Fallback, nil
		}
		if err != nil {
			return "", newError(ErrorPersistence, "latest notice", err)
		}
		return notice.Content, nil

	case VenueIntentFacility:
		points, err := r.store.PointsByType(ctx, intent.Venue.ID, intent.Topic.Point)
		if err != nil {
			return "", newError(ErrorPersistence, "venue points", err)
		}
		closest, ok := Nearest(points, intent.Venue.RefLat, intent.Venue.RefLng)
		if !ok {
			return fmt.Sprintf("%s 정보가 아직 없어요.", intent.Topic.Label), nil
		}
		return formatMapReply(intent.Topic.Label, closest), nil

	case VenueIntentVenueHelp:
		return replyVenueHelp, nil
	case VenueIntentPing:
		return replyPong, nil
	case VenueIntentHelp:
		return replyHelp, nil
	default:
		return replyInquiryReceived, nil
	}
}

func formatMapReply(label string, p *models.Point) string {
	return fmt.Sprintf(`가장 가까운 %s은(는) "https://map.naver.com?lng=%s&lat=%s&title=%s" 입니다`,
		label, formatCoordinate(p.PosLong), formatCoordinate(p.PosLati), p.Title)
}

// formatCoordinate renders a float the way the stored coordinates have
// always been shown to users: shortest round-trip digits, a trailing ".0"
// for whole numbers, and exponent form outside [1e-4, 1e16).
func formatCoordinate(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	if f != 0 {
		if abs := math.Abs(f); abs < 1e-4 || abs >= 1e16 {
			return strconv.FormatFloat(f, 'e', -1, 64)
		}
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
