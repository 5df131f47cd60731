package domain

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ErrMalformedPeopleCount возвращается, когда number_of_ppl нельзя разобрать как число
var ErrMalformedPeopleCount = errors.New("malformed people count")

// ErrUnsupportedGeometry возвращается для геометрий, отличных от Polygon/MultiPolygon
var ErrUnsupportedGeometry = errors.New("unsupported geometry type")

// Attribute - необязательный категориальный атрибут (atoll, island, sector, gear).
// Нулевое значение означает отсутствие атрибута.
type Attribute struct {
	value string
	set   bool
}

// Present создает заданный атрибут. Пустая строка считается отсутствием значения.
func Present(v string) Attribute {
	if v == "" {
		return Attribute{}
	}
	return Attribute{value: v, set: true}
}

// Absent создает отсутствующий атрибут
func Absent() Attribute {
	return Attribute{}
}

// Value возвращает значение и признак наличия
func (a Attribute) Value() (string, bool) {
	return a.value, a.set
}

// OrDefault возвращает значение или def, если атрибут отсутствует
func (a Attribute) OrDefault(def string) string {
	if !a.set {
		return def
	}
	return a.value
}

func (a *Attribute) UnmarshalJSON(data []byte) error {
	if strings.TrimSpace(string(data)) == "null" {
		*a = Absent()
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("attribute must be a string or null: %w", err)
	}
	*a = Present(s)
	return nil
}

func (a Attribute) MarshalJSON() ([]byte, error) {
	if !a.set {
		return []byte("null"), nil
	}
	return json.Marshal(a.value)
}

type peopleCountKind uint8

const (
	peopleUnset peopleCountKind = iota
	peopleNumber
	peopleText
)

// PeopleCount - значение number_of_ppl: число, строка или отсутствует
type PeopleCount struct {
	kind peopleCountKind
	num  float64
	text string
}

func PeopleUnset() PeopleCount {
	return PeopleCount{}
}

func PeopleNumber(v float64) PeopleCount {
	return PeopleCount{kind: peopleNumber, num: v}
}

func PeopleText(s string) PeopleCount {
	return PeopleCount{kind: peopleText, text: s}
}

// Resolve возвращает количество людей, которое представляет запись.
// Отсутствующее или пустое значение дает 1. Нечисловая строка, NaN,
// бесконечность и отрицательное число - ErrMalformedPeopleCount.
func (p PeopleCount) Resolve() (float64, error) {
	switch p.kind {
	case peopleNumber:
		if !validPeople(p.num) {
			return 0, fmt.Errorf("%w: %v", ErrMalformedPeopleCount, p.num)
		}
		return p.num, nil
	case peopleText:
		trimmed := strings.TrimSpace(p.text)
		if trimmed == "" {
			return 1, nil
		}
		v, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || !validPeople(v) {
			return 0, fmt.Errorf("%w: %q", ErrMalformedPeopleCount, p.text)
		}
		return v, nil
	default:
		return 1, nil
	}
}

func validPeople(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// Raw возвращает исходное значение в виде строки; false, если значение не задано
func (p PeopleCount) Raw() (string, bool) {
	switch p.kind {
	case peopleNumber:
		return strconv.FormatFloat(p.num, 'f', -1, 64), true
	case peopleText:
		return p.text, true
	default:
		return "", false
	}
}

func (p *PeopleCount) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch {
	case raw == "null":
		*p = PeopleUnset()
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = PeopleText(s)
	default:
		var v float64
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("number_of_ppl must be a string, number or null: %w", err)
		}
		*p = PeopleNumber(v)
	}
	return nil
}

func (p PeopleCount) MarshalJSON() ([]byte, error) {
	switch p.kind {
	case peopleNumber:
		return json.Marshal(p.num)
	case peopleText:
		return json.Marshal(p.text)
	default:
		return []byte("null"), nil
	}
}

// SurveyProperties - атрибуты одной фигуры опроса (имена полей как в файле данных)
type SurveyProperties struct {
	RespondentID string      `json:"resp_id"`
	Weight       float64     `json:"weight"`
	Atoll        Attribute   `json:"atoll"`
	Island       Attribute   `json:"island"`
	Sector       Attribute   `json:"sector"`
	Gear         Attribute   `json:"gear"`
	PeopleCount  PeopleCount `json:"number_of_ppl"`
}

// SurveyRecord - фигура опроса: геометрия района активности и атрибуты респондента
type SurveyRecord struct {
	Geometry   orb.Geometry
	Properties SurveyProperties
}

type surveyFeature struct {
	Type       string            `json:"type"`
	Geometry   *geojson.Geometry `json:"geometry"`
	Properties SurveyProperties  `json:"properties"`
}

func (r *SurveyRecord) UnmarshalJSON(data []byte) error {
	var f surveyFeature
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	if f.Geometry == nil {
		return fmt.Errorf("%w: feature has no geometry", ErrUnsupportedGeometry)
	}
	g, err := polygonal(f.Geometry.Geometry())
	if err != nil {
		return err
	}
	r.Geometry = g
	r.Properties = f.Properties
	return nil
}

func (r SurveyRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(surveyFeature{
		Type:       "Feature",
		Geometry:   geojson.NewGeometry(r.Geometry),
		Properties: r.Properties,
	})
}

// NewSurveyRecord создает запись, проверяя тип геометрии
func NewSurveyRecord(g orb.Geometry, p SurveyProperties) (SurveyRecord, error) {
	pg, err := polygonal(g)
	if err != nil {
		return SurveyRecord{}, err
	}
	return SurveyRecord{Geometry: pg, Properties: p}, nil
}

// SurveyCollection - GeoJSON FeatureCollection фигур опроса
type SurveyCollection struct {
	Type     string         `json:"type"`
	Features []SurveyRecord `json:"features"`
}

// DecodeSurveyCollection читает FeatureCollection фигур опроса
func DecodeSurveyCollection(r io.Reader) ([]SurveyRecord, error) {
	var fc SurveyCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return nil, fmt.Errorf("decode survey collection: %w", err)
	}
	return fc.Features, nil
}

// polygonal проверяет, что геометрия - Polygon или MultiPolygon
func polygonal(g orb.Geometry) (orb.Geometry, error) {
	switch v := g.(type) {
	case orb.Polygon:
		if len(v) == 0 {
			return nil, fmt.Errorf("%w: empty polygon", ErrUnsupportedGeometry)
		}
		return v, nil
	case orb.MultiPolygon:
		if len(v) == 0 {
			return nil, fmt.Errorf("%w: empty multipolygon", ErrUnsupportedGeometry)
		}
		return v, nil
	case nil:
		return nil, fmt.Errorf("%w: null geometry", ErrUnsupportedGeometry)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedGeometry, g.GeoJSONType())
	}
}
