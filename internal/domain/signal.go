package domain

import "sort"

// SignalTypeID - короткий идентификатор типа сигнала ("A", "B", ...). Набор открытый.
type SignalTypeID string

// SignalRecord - одна декодированная точка
type SignalRecord struct {
	Type SignalTypeID `json:"type" validate:"required"`
	Lat  float64      `json:"lat" validate:"min=-90,max=90"`
	Lng  float64      `json:"lng" validate:"min=-180,max=180"`
}

// Dataset - упорядоченный результат одного вызова декодера.
// Значение: записи копируются на входе и на выходе, поэтому замена датасета не меняет предыдущий.
type Dataset struct {
	records []SignalRecord
}

// NewDataset создает датасет, сохраняя порядок записей декодера
func NewDataset(records []SignalRecord) Dataset {
	if len(records) == 0 {
		return Dataset{}
	}
	cp := make([]SignalRecord, len(records))
	copy(cp, records)
	return Dataset{records: cp}
}

// Len - количество записей
func (d Dataset) Len() int {
	return len(d.records)
}

// IsEmpty - датасет без записей
func (d Dataset) IsEmpty() bool {
	return len(d.records) == 0
}

// Records возвращает копию записей в порядке декодера
func (d Dataset) Records() []SignalRecord {
	cp := make([]SignalRecord, len(d.records))
	copy(cp, d.records)
	return cp
}

// At возвращает запись по индексу
func (d Dataset) At(i int) SignalRecord {
	return d.records[i]
}

// Types - различные типы в порядке первого появления
func (d Dataset) Types() []SignalTypeID {
	seen := make(map[SignalTypeID]struct{})
	types := make([]SignalTypeID, 0)
	for _, r := range d.records {
		if _, ok := seen[r.Type]; ok {
			continue
		}
		seen[r.Type] = struct{}{}
		types = append(types, r.Type)
	}
	return types
}

// TypePartition - записи датасета, сгруппированные по типу с сохранением порядка
type TypePartition struct {
	order  []SignalTypeID
	groups map[SignalTypeID][]SignalRecord
}

// Partition разбивает датасет по типу. Каждая запись попадает ровно в одну группу.
func Partition(d Dataset) TypePartition {
	p := TypePartition{
		order:  make([]SignalTypeID, 0),
		groups: make(map[SignalTypeID][]SignalRecord),
	}
	for _, r := range d.records {
		if _, ok := p.groups[r.Type]; !ok {
			p.order = append(p.order, r.Type)
		}
		p.groups[r.Type] = append(p.groups[r.Type], r)
	}
	return p
}

// Types - ключи разбиения в порядке первого появления
func (p TypePartition) Types() []SignalTypeID {
	cp := make([]SignalTypeID, len(p.order))
	copy(cp, p.order)
	return cp
}

// SortedTypes - ключи разбиения, отсортированные по идентификатору
func (p TypePartition) SortedTypes() []SignalTypeID {
	types := p.Types()
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Records возвращает записи одного типа (nil, если типа нет)
func (p TypePartition) Records(t SignalTypeID) []SignalRecord {
	group, ok := p.groups[t]
	if !ok {
		return nil
	}
	cp := make([]SignalRecord, len(group))
	copy(cp, group)
	return cp
}

// Has - есть ли тип в разбиении
func (p TypePartition) Has(t SignalTypeID) bool {
	_, ok := p.groups[t]
	return ok
}

// Len - количество типов
func (p TypePartition) Len() int {
	return len(p.order)
}

// Size - суммарное количество записей во всех группах
func (p TypePartition) Size() int {
	n := 0
	for _, g := range p.groups {
		n += len(g)
	}
	return n
}
