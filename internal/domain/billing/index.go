package billing

import "github.com/rogerioboitto/casa-backend/internal/domain/shared/valueobject"

// ReadingIndex maps (utility, property key, month) to the reading artifact
// for that month. Built once per full recomputation so the calculator's
// previous-month lookups are O(1).
type ReadingIndex map[Utility]map[string]map[valueobject.ReferenceMonth]*BillArtifact

// BuildReadingIndex indexes every reading artifact that carries a meter index
func BuildReadingIndex(artifacts []BillArtifact) ReadingIndex {
	ix := make(ReadingIndex)
	for i := range artifacts {
		a := &artifacts[i]
		if a.CurrentReading == nil {
			continue
		}
		key := a.PropertyKey()
		if key == "" {
			continue
		}
		byKey, ok := ix[a.Utility]
		if !ok {
			byKey = make(map[string]map[valueobject.ReferenceMonth]*BillArtifact)
			ix[a.Utility] = byKey
		}
		byMonth, ok := byKey[key]
		if !ok {
			byMonth = make(map[valueobject.ReferenceMonth]*BillArtifact)
			byKey[key] = byMonth
		}
		byMonth[a.ReferenceMonth] = a
	}
	return ix
}

// Lookup returns the reading artifact for (utility, property key, month)
func (ix ReadingIndex) Lookup(u Utility, propertyKey string, month valueobject.ReferenceMonth) (*BillArtifact, bool) {
	byKey, ok := ix[u]
	if !ok {
		return nil, false
	}
	byMonth, ok := byKey[propertyKey]
	if !ok {
		return nil, false
	}
	a, ok := byMonth[month]
	return a, ok
}
