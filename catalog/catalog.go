// Package catalog 提供物品 ID、名称与矩阵下标之间经过校验的双向映射。
package catalog

import (
	"github.com/rushteam/playful/core"
)

// Mappings 是产物存储中的原始映射表，对应离线构建时导出的各个字典。
// IndexToName、NameToIndex 可缺省，缺省时由其余表推导。
type Mappings struct {
	IDToName    map[int64]string `json:"id_to_name" yaml:"id_to_name"`
	NameToID    map[string]int64 `json:"name_to_id" yaml:"name_to_id"`
	IDToIndex   map[int64]int    `json:"id_to_index" yaml:"id_to_index"`
	IndexToID   map[int]int64    `json:"index_to_id" yaml:"index_to_id"`
	IndexToName map[int]string   `json:"index_to_name,omitempty" yaml:"index_to_name,omitempty"`
	NameToIndex map[string]int   `json:"name_to_index,omitempty" yaml:"name_to_index,omitempty"`
}

// Entry 是一条物品记录，用于从物品列表构建 Mappings。
type Entry struct {
	Index int    `json:"index" yaml:"index"`
	ID    int64  `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
}

// MappingsFromEntries 由物品列表生成全部映射表。不做校验，校验由 New 完成。
func MappingsFromEntries(entries []Entry) Mappings {
	m := Mappings{
		IDToName:    make(map[int64]string, len(entries)),
		NameToID:    make(map[string]int64, len(entries)),
		IDToIndex:   make(map[int64]int, len(entries)),
		IndexToID:   make(map[int]int64, len(entries)),
		IndexToName: make(map[int]string, len(entries)),
		NameToIndex: make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		m.IDToName[e.ID] = e.Name
		m.NameToID[e.Name] = e.ID
		m.IDToIndex[e.ID] = e.Index
		m.IndexToID[e.Index] = e.ID
		m.IndexToName[e.Index] = e.Name
		m.NameToIndex[e.Name] = e.Index
	}
	return m
}

// Catalog 是 id ↔ index ↔ name 的全双射，构建后不可变，可并发只读。
type Catalog struct {
	idToName    map[int64]string
	nameToID    map[string]int64
	idToIndex   map[int64]int
	indexToID   []int64
	indexToName []string
}

// New 校验映射表的一致性并构建 Catalog。
//
// 校验规则：
//   - [0, N) 中每个下标在 index→id 中恰好出现一次，且 id→index 与之互逆
//   - 每个 id 恰好对应一个 name，name→id 与之互逆
//   - 若提供了 index→name / name→index，须与 index→id→name 一致
//
// 任何违反都返回 MAPPING_INCONSISTENCY，服务不应在此情况下启动。
func New(m Mappings) (*Catalog, error) {
	n := len(m.IndexToID)
	if n == 0 {
		return nil, core.NewMappingInconsistencyError("empty index_to_id table")
	}
	if len(m.IDToIndex) != n {
		return nil, core.NewMappingInconsistencyError("id_to_index has %d entries, index_to_id has %d", len(m.IDToIndex), n)
	}
	if len(m.IDToName) != n {
		return nil, core.NewMappingInconsistencyError("id_to_name has %d entries, want %d", len(m.IDToName), n)
	}
	if len(m.NameToID) != n {
		return nil, core.NewMappingInconsistencyError("name_to_id has %d entries, want %d", len(m.NameToID), n)
	}

	c := &Catalog{
		idToName:    make(map[int64]string, n),
		nameToID:    make(map[string]int64, n),
		idToIndex:   make(map[int64]int, n),
		indexToID:   make([]int64, n),
		indexToName: make([]string, n),
	}

	for idx := 0; idx < n; idx++ {
		id, ok := m.IndexToID[idx]
		if !ok {
			return nil, core.NewMappingInconsistencyError("index %d missing from index_to_id", idx)
		}
		back, ok := m.IDToIndex[id]
		if !ok {
			return nil, core.NewMappingInconsistencyError("id %d (index %d) missing from id_to_index", id, idx)
		}
		if back != idx {
			return nil, core.NewMappingInconsistencyError("id %d maps to index %d, index_to_id says %d", id, back, idx)
		}
		name, ok := m.IDToName[id]
		if !ok {
			return nil, core.NewMappingInconsistencyError("id %d missing from id_to_name", id)
		}
		nameID, ok := m.NameToID[name]
		if !ok || nameID != id {
			return nil, core.NewMappingInconsistencyError("name %q maps to id %d, id_to_name says %d", name, nameID, id)
		}
		if m.IndexToName != nil {
			if got, ok := m.IndexToName[idx]; !ok || got != name {
				return nil, core.NewMappingInconsistencyError("index_to_name[%d]=%q, want %q", idx, got, name)
			}
		}
		if m.NameToIndex != nil {
			if got, ok := m.NameToIndex[name]; !ok || got != idx {
				return nil, core.NewMappingInconsistencyError("name_to_index[%q]=%d, want %d", name, got, idx)
			}
		}

		c.idToName[id] = name
		c.nameToID[name] = id
		c.idToIndex[id] = idx
		c.indexToID[idx] = id
		c.indexToName[idx] = name
	}

	if m.IndexToName != nil && len(m.IndexToName) != n {
		return nil, core.NewMappingInconsistencyError("index_to_name has %d entries, want %d", len(m.IndexToName), n)
	}
	if m.NameToIndex != nil && len(m.NameToIndex) != n {
		return nil, core.NewMappingInconsistencyError("name_to_index has %d entries, want %d", len(m.NameToIndex), n)
	}
	return c, nil
}

// Len 返回物品数量 N。
func (c *Catalog) Len() int { return len(c.indexToID) }

// Name 返回 id 对应的名称。
func (c *Catalog) Name(id int64) (string, error) {
	name, ok := c.idToName[id]
	if !ok {
		return "", core.NewUnknownItemError("id", id)
	}
	return name, nil
}

// ID 返回名称对应的 id。
func (c *Catalog) ID(name string) (int64, error) {
	id, ok := c.nameToID[name]
	if !ok {
		return 0, core.NewUnknownItemError("name", name)
	}
	return id, nil
}

// Index 返回 id 在相似度矩阵中的下标。
func (c *Catalog) Index(id int64) (int, error) {
	idx, ok := c.idToIndex[id]
	if !ok {
		return 0, core.NewUnknownItemError("id", id)
	}
	return idx, nil
}

// IDAt 返回下标对应的 id。
func (c *Catalog) IDAt(index int) (int64, error) {
	if index < 0 || index >= len(c.indexToID) {
		return 0, core.NewUnknownItemError("index", index)
	}
	return c.indexToID[index], nil
}

// NameAt 返回下标对应的名称。
func (c *Catalog) NameAt(index int) (string, error) {
	if index < 0 || index >= len(c.indexToName) {
		return "", core.NewUnknownItemError("index", index)
	}
	return c.indexToName[index], nil
}

// Has 判断 id 是否为已知物品。
func (c *Catalog) Has(id int64) bool {
	_, ok := c.idToIndex[id]
	return ok
}

// Entries 按下标顺序导出全部物品，用于回写产物存储。
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.indexToID))
	for i := range out {
		out[i] = Entry{Index: i, ID: c.indexToID[i], Name: c.indexToName[i]}
	}
	return out
}
