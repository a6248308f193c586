// Package tree implements the parsed/elaborated syntax representation
// (spec §3/§4, "Tree"): declarations, statements, and expressions built as
// objstore.Object nodes tagged objstore.TagTree, carrying vtype.Type and
// ident.ID references the same way the type system carries its own
// structural items. A small Scope type layers name resolution and
// attribute attachment on top, since the object store itself has no
// notion of "visible in this region."
package tree

import "github.com/nvc-project/nvc-core/objstore"

// Kind enumerates the tree node kinds.
type Kind objstore.Kind

const (
	KindNone Kind = iota

	// Expressions.
	KindLiteral
	KindNameRef
	KindBinaryExpr
	KindUnaryExpr
	KindAggregate
	KindCall

	// Declarations.
	KindEntity
	KindArchitecture
	KindGenericDecl
	KindPortDecl
	KindSignalDecl
	KindVariableDecl
	KindConstantDecl
	KindSubprogramDecl

	// Statements / concurrent statements.
	KindProcess
	KindInstance
	KindSignalAssign
	KindVariableAssign
	KindWait
	KindIf
	KindAssert
	KindProcCall
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindLiteral:
		return "literal"
	case KindNameRef:
		return "name-ref"
	case KindBinaryExpr:
		return "binary-expr"
	case KindUnaryExpr:
		return "unary-expr"
	case KindAggregate:
		return "aggregate"
	case KindCall:
		return "call"
	case KindEntity:
		return "entity"
	case KindArchitecture:
		return "architecture"
	case KindGenericDecl:
		return "generic-decl"
	case KindPortDecl:
		return "port-decl"
	case KindSignalDecl:
		return "signal-decl"
	case KindVariableDecl:
		return "variable-decl"
	case KindConstantDecl:
		return "constant-decl"
	case KindSubprogramDecl:
		return "subprogram-decl"
	case KindProcess:
		return "process"
	case KindInstance:
		return "instance"
	case KindSignalAssign:
		return "signal-assign"
	case KindVariableAssign:
		return "variable-assign"
	case KindWait:
		return "wait"
	case KindIf:
		return "if"
	case KindAssert:
		return "assert"
	case KindProcCall:
		return "proc-call"
	default:
		return "kind?"
	}
}

// Item slots, stable across tree kinds.
const (
	SlotIdent       = 0  // identifier
	SlotType        = 1  // ref: vtype.Type this node's value/target has
	SlotValueI64    = 2  // Int64Item: literal integer/physical/time value
	SlotValueReal   = 3  // RealItem: literal real value
	SlotValueText   = 4  // TextItem: literal string/enum-name payload
	SlotOp          = 5  // IntItem: operator code (see Op below)
	SlotLeft        = 6  // ref: binary/unary left operand, assignment target
	SlotRight       = 7  // ref: binary operand, assignment value
	SlotOperands    = 8  // array of object: call args / aggregate elements
	SlotDecls       = 9  // array of object: declarations in a region
	SlotBody        = 10 // array of object: statements in a region
	SlotElse        = 11 // array of object: else-branch statements
	SlotCond        = 12 // ref: if/assert condition
	SlotSensitivity = 13 // array of object: process sensitivity list (name refs)
	SlotGenerics    = 14 // array of parameter: entity generics
	SlotPorts       = 15 // array of parameter: entity ports
	SlotArchOf      = 16 // ref: architecture's entity
	SlotEntityRef   = 17 // ref: instance's bound entity
	SlotPortMap     = 18 // array of parameter: instance port association (formal name -> actual tree ref)
	SlotGenericMap  = 19 // array of parameter: instance generic association
	SlotDelayFs     = 20 // Int64Item: wait-for delay in femtoseconds, -1 if none
	SlotCallee      = 21 // ref: call target (subprogram decl or resolved type for a type conversion)
)

func init() {
	objstore.RegisterKind(objstore.TagTree, objstore.Kind(KindNone), objstore.Schema{})

	objstore.RegisterKind(objstore.TagTree, objstore.Kind(KindLiteral), objstore.Schema{
		HasMap: objstore.SlotMask(SlotType, SlotValueI64, SlotValueReal, SlotValueText),
	})
	objstore.RegisterKind(objstore.TagTree, objstore.Kind(KindNameRef), objstore.Schema{
		HasMap: objstore.SlotMask(SlotIdent, SlotType, SlotCallee),
	})
	objstore.RegisterKind(objstore.TagTree, objstore.Kind(KindBinaryExpr), objstore.Schema{
		HasMap: objstore.SlotMask(SlotType, SlotOp, SlotLeft, SlotRight),
	})
	objstore.RegisterKind(objstore.TagTree, objstore.Kind(KindUnaryExpr), objstore.Schema{
		HasMap: objstore.SlotMask(SlotType, SlotOp, SlotLeft),
	})
	objstore.RegisterKind(objstore.TagTree, objstore.Kind(KindAggregate), objstore.Schema{
		HasMap: objstore.SlotMask(SlotType, SlotOperands),
	})
	objstore.RegisterKind(objstore.TagTree, objstore.Kind(KindCall), objstore.Schema{
		HasMap: objstore.SlotMask(SlotType, SlotCallee, SlotOperands),
	})

	objstore.RegisterKind(objstore.TagTree, objstore.Kind(KindEntity), objstore.Schema{
		HasMap: objstore.SlotMask(SlotIdent, SlotGenerics, SlotPorts),
	})
	objstore.RegisterKind(objstore.TagTree, objstore.Kind(KindArchitecture), objstore.Schema{
		HasMap: objstore.SlotMask(SlotIdent, SlotArchOf, SlotDecls, SlotBody),
	})
	objstore.RegisterKind(objstore.TagTree, objstore.Kind(KindGenericDecl), objstore.Schema{
		HasMap: objstore.SlotMask(SlotIdent, SlotType, SlotRight),
	})
	objstore.RegisterKind(objstore.TagTree, objstore.Kind(KindPortDecl), objstore.Schema{
		HasMap: objstore.SlotMask(SlotIdent, SlotType, SlotOp, SlotRight),
	})
	objstore.RegisterKind(objstore.TagTree, objstore.Kind(KindSignalDecl), objstore.Schema{
		HasMap: objstore.SlotMask(SlotIdent, SlotType, SlotRight),
	})
	objstore.RegisterKind(objstore.TagTree, objstore.Kind(KindVariableDecl), objstore.Schema{
		HasMap: objstore.SlotMask(SlotIdent, SlotType, SlotRight),
	})
	objstore.RegisterKind(objstore.TagTree, objstore.Kind(KindConstantDecl), objstore.Schema{
		HasMap: objstore.SlotMask(SlotIdent, SlotType, SlotRight),
	})
	objstore.RegisterKind(objstore.TagTree, objstore.Kind(KindSubprogramDecl), objstore.Schema{
		HasMap: objstore.SlotMask(SlotIdent, SlotType, SlotDecls, SlotBody),
	})

	objstore.RegisterKind(objstore.TagTree, objstore.Kind(KindProcess), objstore.Schema{
		HasMap: objstore.SlotMask(SlotIdent, SlotSensitivity, SlotDecls, SlotBody),
	})
	objstore.RegisterKind(objstore.TagTree, objstore.Kind(KindInstance), objstore.Schema{
		HasMap: objstore.SlotMask(SlotIdent, SlotEntityRef, SlotGenericMap, SlotPortMap),
	})
	objstore.RegisterKind(objstore.TagTree, objstore.Kind(KindSignalAssign), objstore.Schema{
		HasMap: objstore.SlotMask(SlotLeft, SlotRight, SlotDelayFs),
	})
	objstore.RegisterKind(objstore.TagTree, objstore.Kind(KindVariableAssign), objstore.Schema{
		HasMap: objstore.SlotMask(SlotLeft, SlotRight),
	})
	objstore.RegisterKind(objstore.TagTree, objstore.Kind(KindWait), objstore.Schema{
		HasMap: objstore.SlotMask(SlotSensitivity, SlotCond, SlotDelayFs),
	})
	objstore.RegisterKind(objstore.TagTree, objstore.Kind(KindIf), objstore.Schema{
		HasMap: objstore.SlotMask(SlotCond, SlotBody, SlotElse),
	})
	objstore.RegisterKind(objstore.TagTree, objstore.Kind(KindAssert), objstore.Schema{
		HasMap: objstore.SlotMask(SlotCond, SlotValueText),
	})
	objstore.RegisterKind(objstore.TagTree, objstore.Kind(KindProcCall), objstore.Schema{
		HasMap: objstore.SlotMask(SlotCallee, SlotOperands),
	})
}

// Op enumerates operator codes carried in SlotOp for binary/unary
// expressions (and PortDecl's mode).
type Op int32

const (
	OpNone Op = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNeq
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
	OpXor
	OpNot
	OpNeg
	OpConcat
)

// Mode enumerates port directions, stored via Op in a PortDecl.
type Mode int32

const (
	ModeIn Mode = iota
	ModeOut
	ModeInout
	ModeBuffer
)
