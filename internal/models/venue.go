package models

import "time"

// NoticeKind is the msg_type column of an administrator notice.
type NoticeKind string

const (
	NoticeProhibitedItems NoticeKind = "물품 공지"
	NoticeLostItems       NoticeKind = "분실물 공지"
)

// PointType is the pos_type column of a venue point.
type PointType string

const (
	PointToilet   PointType = "toilet"
	PointStage    PointType = "stage"
	PointHelpdesk PointType = "helpdesk"
	PointBooth    PointType = "booth"
)

// Notice is an administrator-authored announcement for one venue.
type Notice struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	MsgType   NoticeKind `json:"msg_type" gorm:"column:msg_type;size:32;index:idx_notice_type_loc"`
	Loc       int        `json:"loc" gorm:"index:idx_notice_type_loc"`
	Content   string     `json:"content" gorm:"type:text"`
	CreatedAt time.Time  `json:"created_at"`
}

func (Notice) TableName() string {
	return "message"
}

// Point is a named physical location inside a venue.
type Point struct {
	ID      uint      `json:"id" gorm:"primaryKey"`
	Loc     int       `json:"loc" gorm:"index:idx_point_type_loc"`
	PosType PointType `json:"pos_type" gorm:"size:32;index:idx_point_type_loc"`
	Title   string    `json:"title" gorm:"size:200"`
	PosLong float64   `json:"pos_long"`
	PosLati float64   `json:"pos_lati"`
}

func (Point) TableName() string {
	return "point"
}

func (p *Point) Latitude() float64  { return p.PosLati }
func (p *Point) Longitude() float64 { return p.PosLong }
