package objstore_test

import (
	"bytes"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nvc-project/nvc-core/ident"
	"github.com/nvc-project/nvc-core/objstore"
)

const (
	kindLeaf objstore.Kind = 9001
	kindNode objstore.Kind = 9002
	kindDead objstore.Kind = 9003 // never a legal transition target
)

const (
	slotVal  = 0
	slotNext = 1
	slotKids = 2
)

func init() {
	objstore.RegisterKind(objstore.TagTree, kindLeaf, objstore.Schema{
		HasMap:      objstore.SlotMask(slotVal),
		Transitions: map[objstore.Kind]bool{kindNode: true},
	})
	objstore.RegisterKind(objstore.TagTree, kindNode, objstore.Schema{
		HasMap: objstore.SlotMask(slotNext, slotKids),
	})
	objstore.RegisterKind(objstore.TagTree, kindDead, objstore.Schema{
		HasMap: objstore.SlotMask(slotVal),
	})
}

var _ = Describe("Store", func() {
	It("round-trips items through legal slots", func() {
		s := objstore.NewStore()
		h, err := s.New(objstore.TagTree, kindLeaf)
		Expect(err).NotTo(HaveOccurred())

		Expect(s.SetItem(h, slotVal, objstore.Item{Kind: objstore.IntItem, I: 42})).To(Succeed())
		item, err := s.GetItem(h, slotVal)
		Expect(err).NotTo(HaveOccurred())
		Expect(item.I).To(Equal(int32(42)))
	})

	It("rejects slots absent from the has-map", func() {
		s := objstore.NewStore()
		h, _ := s.New(objstore.TagTree, kindLeaf)

		err := s.SetItem(h, slotNext, objstore.Item{Kind: objstore.IntItem, I: 1})
		Expect(err).To(HaveOccurred())
		var schemaErr *objstore.SchemaError
		Expect(errors.As(err, &schemaErr)).To(BeTrue())
	})

	It("allows declared kind transitions and rejects others", func() {
		s := objstore.NewStore()
		h, _ := s.New(objstore.TagTree, kindLeaf)

		Expect(s.SetKind(h, kindNode)).To(Succeed())

		h2, _ := s.New(objstore.TagTree, kindLeaf)
		err := s.SetKind(h2, kindDead)
		Expect(err).To(HaveOccurred())
		var transErr *objstore.KindTransitionError
		Expect(errors.As(err, &transErr)).To(BeTrue())
	})

	It("freezes one way and blocks further mutation", func() {
		s := objstore.NewStore()
		h, _ := s.New(objstore.TagTree, kindLeaf)
		Expect(s.Freeze(0)).To(Succeed())

		err := s.SetItem(h, slotVal, objstore.Item{Kind: objstore.IntItem, I: 1})
		Expect(err).To(HaveOccurred())
		var frozenErr *objstore.FrozenArenaError
		Expect(errors.As(err, &frozenErr)).To(BeTrue())
	})

	It("rejects an object referencing a newer arena", func() {
		s := objstore.NewStore()
		older, err := s.New(objstore.TagTree, kindNode)
		Expect(err).NotTo(HaveOccurred())

		Expect(s.Freeze(0)).To(Succeed())
		s.NewArena()
		newer, err := s.New(objstore.TagTree, kindLeaf)
		Expect(err).NotTo(HaveOccurred())
		Expect(newer.Arena).To(Equal(uint32(1)))

		// newer (arena 1) referencing older (arena 0) is fine.
		Expect(s.SetItem(newer, slotVal, objstore.Item{Kind: objstore.RefItem, Ref: older})).To(Succeed())

		// older (arena 0, frozen) can't be mutated at all, so exercise the
		// forward-reference guard directly against an unfrozen arena 0
		// object instead.
		s2 := objstore.NewStore()
		a0Leaf, _ := s2.New(objstore.TagTree, kindNode)
		s2.NewArena()
		a1Leaf, _ := s2.New(objstore.TagTree, kindLeaf)

		err = s2.SetItem(a0Leaf, slotNext, objstore.Item{Kind: objstore.RefItem, Ref: a1Leaf})
		Expect(err).To(HaveOccurred())
		var fwdErr *objstore.ForwardReferenceError
		Expect(errors.As(err, &fwdErr)).To(BeTrue())
	})

	It("serializes and deserializes a small graph under strict equality", func() {
		s := objstore.NewStore()
		leaf, _ := s.New(objstore.TagTree, kindLeaf)
		Expect(s.SetItem(leaf, slotVal, objstore.Item{Kind: objstore.IntItem, I: 7})).To(Succeed())

		node, _ := s.New(objstore.TagTree, kindNode)
		Expect(s.SetItem(node, slotNext, objstore.Item{Kind: objstore.RefItem, Ref: leaf})).To(Succeed())
		Expect(s.SetItem(node, slotKids, objstore.Item{
			Kind: objstore.ArrayItem,
			Arr: []objstore.ArrayElem{
				{Kind: objstore.ElemIdent, Ident: ident.InternString("COUNTER")},
				{Kind: objstore.ElemObject, Ref: leaf},
			},
		})).To(Succeed())

		var buf bytes.Buffer
		Expect(s.Serialize(node, &buf, nil)).To(Succeed())

		s2 := objstore.NewStore()
		root, err := s2.Deserialize(&buf, nil)
		Expect(err).NotTo(HaveOccurred())

		kind, err := s2.Kind(root)
		Expect(err).NotTo(HaveOccurred())
		Expect(kind).To(Equal(kindNode))

		nextItem, err := s2.GetItem(root, slotNext)
		Expect(err).NotTo(HaveOccurred())
		leafKind, err := s2.Kind(nextItem.Ref)
		Expect(err).NotTo(HaveOccurred())
		Expect(leafKind).To(Equal(kindLeaf))

		leafVal, err := s2.GetItem(nextItem.Ref, slotVal)
		Expect(err).NotTo(HaveOccurred())
		Expect(leafVal.I).To(Equal(int32(7)))

		kids, err := s2.GetItem(root, slotKids)
		Expect(err).NotTo(HaveOccurred())
		Expect(kids.Arr).To(HaveLen(2))
		Expect(kids.Arr[0].Ident.String()).To(Equal("COUNTER"))
	})

	It("is idempotent when GC roots do not change", func() {
		s := objstore.NewStore()
		root, _ := s.New(objstore.TagTree, kindLeaf)
		Expect(s.Freeze(0)).To(Succeed())
		s.NewArena() // keep one unfrozen arena alive regardless of roots

		stats1 := s.GC([]objstore.Handle{root})
		stats2 := s.GC([]objstore.Handle{root})
		Expect(stats1).To(Equal(stats2))
	})

	It("frees arenas unreachable from the root set", func() {
		s := objstore.NewStore()
		_, _ = s.New(objstore.TagTree, kindLeaf)
		Expect(s.Freeze(0)).To(Succeed())

		s.NewArena()
		kept, _ := s.New(objstore.TagTree, kindLeaf)
		Expect(s.Freeze(1)).To(Succeed())

		s.NewArena() // current, always implicitly reachable

		stats := s.GC([]objstore.Handle{kept})
		Expect(stats.FreedArenas).To(Equal(1))
		Expect(s.Arena(0)).To(BeNil())
		Expect(s.Arena(1)).NotTo(BeNil())
	})
})
