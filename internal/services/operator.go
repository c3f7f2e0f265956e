package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/eventlive/eventlive-backend/internal/models"
	"github.com/eventlive/eventlive-backend/internal/storage"
)

const (
	operatorUsage     = "형식: /입장줄 30분 | /faq 키1,키2=답변 | /loc 카테고리 이름 lat lng"
	operatorMalformed = "형식 오류: /입장줄 30분 | /faq 키1,키2=답변 | /loc 카테고리 이름 lat lng"
	faqUsage          = "형식: /faq 키1,키2=답변"
	locUsage          = "형식: /loc <카테고리> <이름> <lat> <lng>"
	locBadNumber      = "좌표 숫자 형식 오류"
	unknownCommand    = "알 수 없는 커맨드"
)

var operatorPattern = regexp.MustCompile(`^/(\S+)\s+(.+)`)

// StatusAliases are the command names that set a live status under their
// own name.
var StatusAliases = []string{"입장줄", "주차", "대기시간", "입장시간"}

type OperatorCommandKind int

const (
	OperatorUsage OperatorCommandKind = iota
	OperatorMalformed
	OperatorSetStatus
	OperatorAddFAQ
	OperatorFAQUsage
	OperatorAddLocation
	OperatorLocationUsage
	OperatorBadCoordinates
	OperatorUnknown
)

// OperatorCommand is a parsed operator slash command. Status, FAQ and
// Location are populated for the matching kind only.
type OperatorCommand struct {
	Kind     OperatorCommandKind
	Status   models.StatusRecord
	FAQ      models.FaqRecord
	Category string
	Location models.LocationPoint
}

// ParseOperatorCommand parses "/cmd args". It never fails; malformed input
// becomes one of the usage kinds.
func ParseOperatorCommand(text string) OperatorCommand {
	if !strings.HasPrefix(text, "/") {
		return OperatorCommand{Kind: OperatorUsage}
	}
	m := operatorPattern.FindStringSubmatch(text)
	if m == nil {
		return OperatorCommand{Kind: OperatorMalformed}
	}
	cmd, arg := m[1], m[2]

	for _, alias := range StatusAliases {
		if cmd == alias {
			return OperatorCommand{Kind: OperatorSetStatus, Status: models.StatusRecord{Key: cmd, Value: arg}}
		}
	}

	switch strings.ToLower(cmd) {
	case "faq":
		if strings.Count(arg, "=") != 1 {
			return OperatorCommand{Kind: OperatorFAQUsage}
		}
		keywords, answer, _ := strings.Cut(arg, "=")
		return OperatorCommand{Kind: OperatorAddFAQ, FAQ: models.FaqRecord{Keywords: keywords, Answer: answer}}

	case "loc":
		parts := strings.Fields(arg)
		if len(parts) != 4 {
			return OperatorCommand{Kind: OperatorLocationUsage}
		}
		lat, errLat := strconv.ParseFloat(parts[2], 64)
		lng, errLng := strconv.ParseFloat(parts[3], 64)
		if errLat != nil || errLng != nil {
			return OperatorCommand{Kind: OperatorBadCoordinates}
		}
		return OperatorCommand{
			Kind:     OperatorAddLocation,
			Category: parts[0],
			Location: models.LocationPoint{Name: parts[1], Lat: lat, Lng: lng},
		}
	}

	return OperatorCommand{Kind: OperatorUnknown}
}

// OperatorConsole applies operator commands to the field store.
type OperatorConsole struct {
	fields storage.FieldStore
}

func NewOperatorConsole(fields storage.FieldStore) *OperatorConsole {
	return &OperatorConsole{fields: fields}
}

// Execute parses and applies text, returning the message shown to the
// operator. Only store failures are returned as errors.
func (o *OperatorConsole) Execute(ctx context.Context, text string) (string, error) {
	cmd := ParseOperatorCommand(text)

	switch cmd.Kind {
	case OperatorSetStatus:
		if err := o.fields.SetStatus(ctx, cmd.Status.Key, cmd.Status.Value); err != nil {
			return "", newError(ErrorPersistence, "set status", err)
		}
		return fmt.Sprintf("[OK] %s = %s", cmd.Status.Key, cmd.Status.Value), nil
	case OperatorAddFAQ:
		if err := o.fields.AddFAQ(ctx, cmd.FAQ); err != nil {
			return "", newError(ErrorPersistence, "add faq", err)
		}
		return "[OK] FAQ 저장", nil
	case OperatorAddLocation:
		if err := o.fields.AddLocation(ctx, cmd.Category, cmd.Location); err != nil {
			return "", newError(ErrorPersistence, "add location", err)
		}
		return fmt.Sprintf("[OK] %s:%s 좌표 저장", cmd.Category, cmd.Location.Name), nil
	case OperatorUsage:
		return operatorUsage, nil
	case OperatorMalformed:
		return operatorMalformed, nil
	case OperatorFAQUsage:
		return faqUsage, nil
	case OperatorLocationUsage:
		return locUsage, nil
	case OperatorBadCoordinates:
		return locBadNumber, nil
	default:
		return unknownCommand, nil
	}
}

// IsOperator reports whether a direct webhook payload comes from staff.
func IsOperator(payload Node) bool {
	user := payload.Get("user")
	return user.Get("type").Text() == "operator" || user.Get("isOperator").Bool()
}
