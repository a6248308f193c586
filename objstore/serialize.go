package objstore

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/nvc-project/nvc-core/ident"
)

// Magic identifies a serialized object arena stream (spec §6, "magic
// bytes" of the persisted unit file format; the rest of the unit file
// header - tool version, dependency triples - is the library manager's
// concern, layered on top of this).
var Magic = [4]byte{'N', 'V', 'C', 'O'}

// Resolver tells the serializer whether a referenced arena belongs to a
// different, already-persisted unit (in which case it is emitted as a
// stable external triple) or to the unit currently being written (in
// which case it is inlined). Arenas that are part of the same library
// unit as root but were frozen earlier (e.g. a package body built across
// several analyse invocations) are NOT external and are inlined.
type Resolver interface {
	Resolve(arena uint32) (lib, unit string, gen uint64, ok bool)
}

// Importer is the deserialization counterpart of Resolver: given a stable
// external triple, it returns (loading if necessary) the local arena id
// that now holds those objects.
type Importer interface {
	Import(lib, unit string, gen uint64) (arena uint32, err error)
}

// Serialize writes the object graph reachable from root to w, depth
// first, per spec §4.1. References that Resolver identifies as external
// are written as a stable (library, unit, generation, index) reference
// instead of being inlined.
func (s *Store) Serialize(root Handle, w io.Writer, resolver Resolver) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.Write(Magic[:]); err != nil {
		return err
	}
	if err := writeU64(bw, SchemaDigest()); err != nil {
		return err
	}

	order := []Handle{}
	index := map[Handle]int{}
	var walk func(h Handle) error
	walk = func(h Handle) error {
		if !h.Valid() {
			return nil
		}
		if _, ok := index[h]; ok {
			return nil
		}
		if resolver != nil {
			if _, _, _, ok := resolver.Resolve(h.Arena); ok {
				return nil // external: not inlined, referenced by triple at use sites
			}
		}

		s.mu.RLock()
		_, o, err := s.resolve(h)
		s.mu.RUnlock()
		if err != nil {
			return err
		}

		index[h] = len(order)
		order = append(order, h)

		schema, _ := schemaFor(o.Tag, o.Kind)
		for slot := 0; slot < MaxSlots; slot++ {
			if !schema.Allows(slot) {
				continue
			}
			item := o.ItemAt(slot)
			switch item.Kind {
			case RefItem:
				if err := walk(item.Ref); err != nil {
					return err
				}
			case ArrayItem:
				for _, el := range item.Arr {
					if el.Kind == ElemObject {
						if err := walk(el.Ref); err != nil {
							return err
						}
					}
					if el.Kind == ElemParameter && el.Param.Type.Valid() {
						if err := walk(el.Param.Type); err != nil {
							return err
						}
					}
				}
			}
		}
		return nil
	}
	if err := walk(root); err != nil {
		return err
	}

	if err := writeU32(bw, uint32(len(order))); err != nil {
		return err
	}
	rootIdx, ok := index[root]
	if !ok {
		return fmt.Errorf("objstore: root %s not inlined by its own resolver", root)
	}
	if err := writeU32(bw, uint32(rootIdx)); err != nil {
		return err
	}

	for _, h := range order {
		s.mu.RLock()
		_, o, err := s.resolve(h)
		s.mu.RUnlock()
		if err != nil {
			return err
		}
		if err := writeObject(bw, o, index, resolver); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func writeObject(bw *bufio.Writer, o *Object, index map[Handle]int, resolver Resolver) error {
	if err := bw.WriteByte(byte(o.Tag)); err != nil {
		return err
	}
	if err := writeU16(bw, uint16(o.Kind)); err != nil {
		return err
	}
	if err := writeString(bw, o.Loc.File.String()); err != nil {
		return err
	}
	if err := writeU32(bw, uint32(o.Loc.Line)); err != nil {
		return err
	}
	if err := writeU16(bw, uint16(o.Loc.Col)); err != nil {
		return err
	}
	if err := writeU16(bw, uint16(o.Loc.Length)); err != nil {
		return err
	}

	schema, _ := schemaFor(o.Tag, o.Kind)
	for slot := 0; slot < MaxSlots; slot++ {
		if !schema.Allows(slot) {
			continue
		}
		item := o.ItemAt(slot)
		if err := writeItem(bw, item, index, resolver); err != nil {
			return err
		}
	}
	return nil
}

func writeItem(bw *bufio.Writer, item Item, index map[Handle]int, resolver Resolver) error {
	if err := bw.WriteByte(byte(item.Kind)); err != nil {
		return err
	}
	switch item.Kind {
	case NoItem:
	case IntItem:
		return writeU32(bw, uint32(item.I))
	case Int64Item:
		return writeU64(bw, uint64(item.I64))
	case RealItem:
		return writeU64(bw, mathFloatBits(item.F))
	case IdentItem:
		return writeString(bw, item.Ident.String())
	case RefItem:
		return writeRef(bw, item.Ref, index, resolver)
	case TextItem:
		return writeString(bw, item.Text)
	case ArrayItem:
		if err := writeU32(bw, uint32(len(item.Arr))); err != nil {
			return err
		}
		for _, el := range item.Arr {
			if err := bw.WriteByte(byte(el.Kind)); err != nil {
				return err
			}
			switch el.Kind {
			case ElemObject:
				if err := writeRef(bw, el.Ref, index, resolver); err != nil {
					return err
				}
			case ElemIdent:
				if err := writeString(bw, el.Ident.String()); err != nil {
					return err
				}
			case ElemRange:
				if err := writeU64(bw, uint64(el.Range.Low)); err != nil {
					return err
				}
				if err := writeU64(bw, uint64(el.Range.High)); err != nil {
					return err
				}
				if err := bw.WriteByte(boolByte(el.Range.Descending)); err != nil {
					return err
				}
			case ElemParameter:
				if err := writeString(bw, el.Param.Name.String()); err != nil {
					return err
				}
				if err := writeRef(bw, el.Param.Type, index, resolver); err != nil {
					return err
				}
			}
		}
		return nil
	}
	return nil
}

// refTag distinguishes an inlined local ref from an external triple ref
// in the wire format.
const (
	refTagNil      byte = 0
	refTagLocal    byte = 1
	refTagExternal byte = 2
)

func writeRef(bw *bufio.Writer, h Handle, index map[Handle]int, resolver Resolver) error {
	if !h.Valid() {
		return bw.WriteByte(refTagNil)
	}
	if idx, ok := index[h]; ok {
		if err := bw.WriteByte(refTagLocal); err != nil {
			return err
		}
		return writeU32(bw, uint32(idx))
	}
	if resolver != nil {
		if lib, unit, gen, ok := resolver.Resolve(h.Arena); ok {
			if err := bw.WriteByte(refTagExternal); err != nil {
				return err
			}
			if err := writeString(bw, lib); err != nil {
				return err
			}
			if err := writeString(bw, unit); err != nil {
				return err
			}
			if err := writeU64(bw, gen); err != nil {
				return err
			}
			return writeU32(bw, h.Index)
		}
	}
	return fmt.Errorf("objstore: reference %s is neither inlined nor resolvable", h)
}

// Deserialize reads a stream written by Serialize back into s, allocating
// a fresh arena to hold the inlined objects, and returns the handle of
// the original root. A schema digest mismatch yields a *StaleUnitError.
func (s *Store) Deserialize(r io.Reader, importer Importer) (Handle, error) {
	br := bufio.NewReader(r)

	var magic [4]byte
	if _, err := io.ReadFull(br, magic[:]); err != nil {
		return Nil, err
	}
	if magic != Magic {
		return Nil, fmt.Errorf("objstore: bad magic %v", magic)
	}
	digest, err := readU64(br)
	if err != nil {
		return Nil, err
	}
	if want := SchemaDigest(); digest != want {
		return Nil, &StaleUnitError{
			Wanted: fmt.Sprintf("%x", want),
			Got:    fmt.Sprintf("%x", digest),
		}
	}

	n, err := readU32(br)
	if err != nil {
		return Nil, err
	}
	rootIdx, err := readU32(br)
	if err != nil {
		return Nil, err
	}

	arena := s.NewArena()
	// Objects are written parent first, so a reference may name an object
	// later in the stream. The fresh arena receives object i at index i,
	// so every handle is known before any object is read.
	handles := make([]Handle, n)
	for i := range handles {
		handles[i] = Handle{Arena: arena.id, Index: uint32(i)}
	}
	for i := uint32(0); i < n; i++ {
		h, err := readObject(br, s, arena, handles, importer)
		if err != nil {
			return Nil, err
		}
		handles[i] = h
	}

	if int(rootIdx) >= len(handles) {
		return Nil, fmt.Errorf("objstore: root index out of range")
	}
	return handles[rootIdx], nil
}

func readObject(br *bufio.Reader, s *Store, arena *Arena, handles []Handle, importer Importer) (Handle, error) {
	tagByte, err := br.ReadByte()
	if err != nil {
		return Nil, err
	}
	tag := Tag(tagByte)
	kind16, err := readU16(br)
	if err != nil {
		return Nil, err
	}
	kind := Kind(kind16)

	fileStr, err := readString(br)
	if err != nil {
		return Nil, err
	}
	line, err := readU32(br)
	if err != nil {
		return Nil, err
	}
	col, err := readU16(br)
	if err != nil {
		return Nil, err
	}
	length, err := readU16(br)
	if err != nil {
		return Nil, err
	}

	idx := uint32(len(arena.objects))
	arena.objects = append(arena.objects, Object{
		Tag: tag, Kind: kind,
		Loc: Loc{File: ident.InternString(fileStr), Line: int32(line), Col: int16(col), Length: int16(length)},
	})
	h := Handle{Arena: arena.id, Index: idx}

	schema, ok := schemaFor(tag, kind)
	if !ok {
		return Nil, &SchemaError{Tag: tag, Kind: kind, Slot: -1}
	}
	for slot := 0; slot < MaxSlots; slot++ {
		if !schema.Allows(slot) {
			continue
		}
		item, err := readItem(br, handles, importer)
		if err != nil {
			return Nil, err
		}
		arena.objects[idx].setItemAt(slot, item)
	}
	return h, nil
}

func readItem(br *bufio.Reader, handles []Handle, importer Importer) (Item, error) {
	kb, err := br.ReadByte()
	if err != nil {
		return Item{}, err
	}
	kind := ItemKind(kb)
	switch kind {
	case NoItem:
		return Item{Kind: NoItem}, nil
	case IntItem:
		v, err := readU32(br)
		return Item{Kind: IntItem, I: int32(v)}, err
	case Int64Item:
		v, err := readU64(br)
		return Item{Kind: Int64Item, I64: int64(v)}, err
	case RealItem:
		v, err := readU64(br)
		return Item{Kind: RealItem, F: mathFloatFromBits(v)}, err
	case IdentItem:
		s, err := readString(br)
		return Item{Kind: IdentItem, Ident: ident.InternString(s)}, err
	case RefItem:
		ref, err := readRef(br, handles, importer)
		return Item{Kind: RefItem, Ref: ref}, err
	case TextItem:
		s, err := readString(br)
		return Item{Kind: TextItem, Text: s}, err
	case ArrayItem:
		n, err := readU32(br)
		if err != nil {
			return Item{}, err
		}
		arr := make([]ArrayElem, n)
		for i := range arr {
			ek, err := br.ReadByte()
			if err != nil {
				return Item{}, err
			}
			el := ArrayElem{Kind: ArrayElemKind(ek)}
			switch el.Kind {
			case ElemObject:
				el.Ref, err = readRef(br, handles, importer)
			case ElemIdent:
				var s string
				s, err = readString(br)
				el.Ident = ident.InternString(s)
			case ElemRange:
				var lo, hi uint64
				lo, err = readU64(br)
				if err == nil {
					hi, err = readU64(br)
				}
				var db byte
				if err == nil {
					db, err = br.ReadByte()
				}
				el.Range = Range{Low: int64(lo), High: int64(hi), Descending: db != 0}
			case ElemParameter:
				var name string
				name, err = readString(br)
				if err == nil {
					el.Param.Name = ident.InternString(name)
					el.Param.Type, err = readRef(br, handles, importer)
				}
			}
			if err != nil {
				return Item{}, err
			}
			arr[i] = el
		}
		return Item{Kind: ArrayItem, Arr: arr}, nil
	default:
		return Item{}, fmt.Errorf("objstore: unknown item kind %d", kind)
	}
}

func readRef(br *bufio.Reader, handles []Handle, importer Importer) (Handle, error) {
	tag, err := br.ReadByte()
	if err != nil {
		return Nil, err
	}
	switch tag {
	case refTagNil:
		return Nil, nil
	case refTagLocal:
		idx, err := readU32(br)
		if err != nil {
			return Nil, err
		}
		if int(idx) >= len(handles) {
			// Deserialize fills handles for every object in the stream
			// before reading any, so only an index past the object count
			// lands here.
			return Handle{}, fmt.Errorf("objstore: local ref %d out of range", idx)
		}
		return handles[idx], nil
	case refTagExternal:
		lib, err := readString(br)
		if err != nil {
			return Nil, err
		}
		unit, err := readString(br)
		if err != nil {
			return Nil, err
		}
		gen, err := readU64(br)
		if err != nil {
			return Nil, err
		}
		index, err := readU32(br)
		if err != nil {
			return Nil, err
		}
		if importer == nil {
			return Nil, fmt.Errorf("objstore: external ref to %s.%s but no importer supplied", lib, unit)
		}
		arena, err := importer.Import(lib, unit, gen)
		if err != nil {
			return Nil, err
		}
		return Handle{Arena: arena, Index: index}, nil
	default:
		return Nil, fmt.Errorf("objstore: bad ref tag %d", tag)
	}
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func writeU16(w io.ByteWriter, v uint16) error {
	if err := w.WriteByte(byte(v)); err != nil {
		return err
	}
	return w.WriteByte(byte(v >> 8))
}

func readU16(r io.ByteReader) (uint16, error) {
	lo, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	hi, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	return uint16(lo) | uint16(hi)<<8, nil
}

func writeU32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readU32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func writeU64(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readU64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

func writeString(w io.Writer, s string) error {
	if err := writeU32(w, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	n, err := readU32(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
