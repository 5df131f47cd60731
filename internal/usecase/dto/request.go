package dto

import json "github.com/goccy/go-json"

// OverlapRequest - запрос расчета пересечения участка с данными опроса
type OverlapRequest struct {
	// Sketch - GeoJSON Feature (участок) или FeatureCollection (коллекция участков)
	Sketch         json.RawMessage `json:"sketch" validate:"required" swaggertype:"object"`
	IncludePercent bool            `json:"includePercent"`
}

// SketchEnvelope - заголовок GeoJSON участка, проверяется до полного разбора
type SketchEnvelope struct {
	Type       string           `json:"type" validate:"required,geojson_area"`
	Properties SketchProperties `json:"properties"`
}

type SketchProperties struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name" validate:"max=256"`
}
