package domain

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
)

// Ключи "неизвестных" категорий для отсутствующих атрибутов
const (
	UnknownAtoll  = "unknown-atoll"
	UnknownIsland = "unknown-island"
	UnknownSector = "unknown-sector"
	UnknownGear   = "unknown-gear"
)

// BaseCountStats - число респондентов и людей
type BaseCountStats struct {
	Respondents int     `json:"respondents"`
	People      float64 `json:"people"`
}

// Add прибавляет другие счетчики
func (s *BaseCountStats) Add(o BaseCountStats) {
	s.Respondents += o.Respondents
	s.People += o.People
}

// ClassCountStats - счетчики по ключу категории. Сохраняет порядок первой вставки,
// нулевое значение готово к использованию.
type ClassCountStats struct {
	keys   []string
	values map[string]*BaseCountStats
}

// Add прибавляет s к категории key, создавая ее при необходимости
func (c *ClassCountStats) Add(key string, s BaseCountStats) {
	if c.values == nil {
		c.values = make(map[string]*BaseCountStats)
	}
	if cur, ok := c.values[key]; ok {
		cur.Add(s)
		return
	}
	v := s
	c.values[key] = &v
	c.keys = append(c.keys, key)
}

// Increment засчитывает одного респондента с people людьми
func (c *ClassCountStats) Increment(key string, people float64) {
	c.Add(key, BaseCountStats{Respondents: 1, People: people})
}

// Get возвращает счетчики категории
func (c ClassCountStats) Get(key string) (BaseCountStats, bool) {
	v, ok := c.values[key]
	if !ok {
		return BaseCountStats{}, false
	}
	return *v, true
}

// Keys возвращает ключи в порядке вставки
func (c ClassCountStats) Keys() []string {
	keys := make([]string, len(c.keys))
	copy(keys, c.keys)
	return keys
}

func (c ClassCountStats) Len() int {
	return len(c.keys)
}

// Total суммирует все категории
func (c ClassCountStats) Total() BaseCountStats {
	var total BaseCountStats
	for _, k := range c.keys {
		total.Add(*c.values[k])
	}
	return total
}

// Clone возвращает независимую копию
func (c ClassCountStats) Clone() ClassCountStats {
	var out ClassCountStats
	for _, k := range c.keys {
		out.Add(k, *c.values[k])
	}
	return out
}

// AsMap возвращает счетчики в виде обычной map (порядок теряется)
func (c ClassCountStats) AsMap() map[string]BaseCountStats {
	out := make(map[string]BaseCountStats, len(c.keys))
	for _, k := range c.keys {
		out[k] = *c.values[k]
	}
	return out
}

func (c ClassCountStats) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range c.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(c.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON читает объект с сохранением порядка ключей
func (c *ClassCountStats) UnmarshalJSON(data []byte) error {
	*c = ClassCountStats{}
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("class count stats must be an object")
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected key token %v", tok)
		}
		var v BaseCountStats
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("decode class %q: %w", key, err)
		}
		c.Add(key, v)
	}
	_, err = dec.Token()
	return err
}

// OusStats - демографическая статистика пересечения
type OusStats struct {
	BaseCountStats
	BySector ClassCountStats `json:"bySector"`
	ByAtoll  ClassCountStats `json:"byAtoll"`
	ByIsland ClassCountStats `json:"byIsland"`
	ByGear   ClassCountStats `json:"byGear"`
}

// Clone возвращает глубокую копию
func (s OusStats) Clone() OusStats {
	return OusStats{
		BaseCountStats: s.BaseCountStats,
		BySector:       s.BySector.Clone(),
		ByAtoll:        s.ByAtoll.Clone(),
		ByIsland:       s.ByIsland.Clone(),
		ByGear:         s.ByGear.Clone(),
	}
}

// OusReportResult - результат расчета: статистика и плоский список метрик
type OusReportResult struct {
	Stats   OusStats `json:"stats"`
	Metrics []Metric `json:"metrics"`
}

// Clone возвращает глубокую копию результата
func (r *OusReportResult) Clone() *OusReportResult {
	metrics := make([]Metric, len(r.Metrics))
	for i, m := range r.Metrics {
		metrics[i] = m.Clone()
	}
	return &OusReportResult{
		Stats:   r.Stats.Clone(),
		Metrics: metrics,
	}
}
