package domain

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
	json "github.com/goccy/go-json"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ErrInvalidPlanningArea возвращается при разборе некорректного участка
var ErrInvalidPlanningArea = errors.New("invalid planning area")

// Sketch - один полигональный участок, нарисованный пользователем
type Sketch struct {
	ID       string
	Name     string
	Geometry orb.Geometry
}

// PlanningArea - участок или именованная коллекция участков
type PlanningArea struct {
	ID         string
	Name       string
	Collection bool
	Sketches   []Sketch
}

// SketchID возвращает идентификатор для поля sketchId метрик
func (a *PlanningArea) SketchID() *string {
	if a == nil {
		return nil
	}
	id := a.ID
	return &id
}

// Polygons возвращает все полигоны всех участков одним MultiPolygon
func (a *PlanningArea) Polygons() orb.MultiPolygon {
	if a == nil {
		return nil
	}
	var mp orb.MultiPolygon
	for _, s := range a.Sketches {
		switch g := s.Geometry.(type) {
		case orb.Polygon:
			mp = append(mp, g)
		case orb.MultiPolygon:
			mp = append(mp, g...)
		}
	}
	return mp
}

// WithGeometry возвращает копию участка с заменой геометрий через fn
func (a *PlanningArea) WithGeometry(fn func(orb.Geometry) orb.Geometry) *PlanningArea {
	out := &PlanningArea{
		ID:         a.ID,
		Name:       a.Name,
		Collection: a.Collection,
		Sketches:   make([]Sketch, len(a.Sketches)),
	}
	for i, s := range a.Sketches {
		out.Sketches[i] = Sketch{ID: s.ID, Name: s.Name, Geometry: fn(s.Geometry)}
	}
	return out
}

// Fingerprint - хеш идентификатора и геометрии, используется как ключ кеша
func (a *PlanningArea) Fingerprint() (string, error) {
	h := xxhash.New()
	_, _ = h.WriteString(a.ID)
	for _, s := range a.Sketches {
		data, err := geojson.NewGeometry(s.Geometry).MarshalJSON()
		if err != nil {
			return "", fmt.Errorf("marshal sketch geometry: %w", err)
		}
		_, _ = h.WriteString(s.ID)
		_, _ = h.Write(data)
	}
	return strconv.FormatUint(h.Sum64(), 16), nil
}

type sketchProperties struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type sketchFeature struct {
	Type       string            `json:"type"`
	Properties sketchProperties  `json:"properties"`
	Geometry   *geojson.Geometry `json:"geometry,omitempty"`
	Features   []sketchFeature   `json:"features,omitempty"`
}

// ParsePlanningArea разбирает Sketch (Feature) или SketchCollection (FeatureCollection)
func ParsePlanningArea(data []byte) (*PlanningArea, error) {
	var raw sketchFeature
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPlanningArea, err)
	}
	if raw.Properties.ID == "" {
		return nil, fmt.Errorf("%w: properties.id is required", ErrInvalidPlanningArea)
	}

	area := &PlanningArea{
		ID:   raw.Properties.ID,
		Name: raw.Properties.Name,
	}

	switch raw.Type {
	case "Feature":
		s, err := toSketch(raw)
		if err != nil {
			return nil, err
		}
		area.Sketches = []Sketch{s}
	case "FeatureCollection":
		if len(raw.Features) == 0 {
			return nil, fmt.Errorf("%w: collection has no sketches", ErrInvalidPlanningArea)
		}
		area.Collection = true
		for _, f := range raw.Features {
			s, err := toSketch(f)
			if err != nil {
				return nil, err
			}
			area.Sketches = append(area.Sketches, s)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported type %q", ErrInvalidPlanningArea, raw.Type)
	}

	return area, nil
}

func toSketch(f sketchFeature) (Sketch, error) {
	if f.Geometry == nil {
		return Sketch{}, fmt.Errorf("%w: sketch %q has no geometry", ErrInvalidPlanningArea, f.Properties.ID)
	}
	g, err := polygonal(f.Geometry.Geometry())
	if err != nil {
		return Sketch{}, fmt.Errorf("%w: sketch %q: %v", ErrInvalidPlanningArea, f.Properties.ID, err)
	}
	return Sketch{ID: f.Properties.ID, Name: f.Properties.Name, Geometry: g}, nil
}

// NullSketch - участок без геометрии для ответа клиенту
type NullSketch struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	IsCollection bool         `json:"isCollection"`
	Sketches     []NullSketch `json:"sketches,omitempty"`
}

// ToNullSketch убирает геометрию, оставляя идентификаторы
func (a *PlanningArea) ToNullSketch() NullSketch {
	ns := NullSketch{ID: a.ID, Name: a.Name, IsCollection: a.Collection}
	if a.Collection {
		for _, s := range a.Sketches {
			ns.Sketches = append(ns.Sketches, NullSketch{ID: s.ID, Name: s.Name})
		}
	}
	return ns
}
