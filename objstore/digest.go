package objstore

import (
	"hash/fnv"
	"sort"
)

// SchemaDigest hashes the currently registered (tag, kind) -> has-map
// table. Two processes that register the same set of domain schemas
// produce the same digest; a library unit persisted by one and reopened
// by a process whose schema table has drifted (a rebuilt compiler with
// added/removed item slots) will disagree, which is exactly the signal
// StaleUnitError exists to carry (spec §4.1, §6).
func SchemaDigest() uint64 {
	schemaMu.RLock()
	defer schemaMu.RUnlock()

	type row struct {
		tag     Tag
		kind    Kind
		hasMap  uint64
		numTrns int
	}
	var rows []row
	for tag, m := range schemas {
		for kind, schema := range m {
			rows = append(rows, row{tag, kind, schema.HasMap, len(schema.Transitions)})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].tag != rows[j].tag {
			return rows[i].tag < rows[j].tag
		}
		return rows[i].kind < rows[j].kind
	})

	h := fnv.New64a()
	var buf [24]byte
	for _, r := range rows {
		putU64(buf[0:8], uint64(r.tag))
		putU64(buf[8:16], uint64(r.kind))
		putU64(buf[16:24], r.hasMap)
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}

func putU64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

func getU64(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}
