package parser

import (
	"unsafescan/internal/ast"
	"unsafescan/internal/token"
)

// Таблица приоритетов для бинарных операторов
// Чем больше число, тем выше приоритет
const (
	precLogicalOr      = 2  // ||
	precLogicalAnd     = 3  // &&
	precComparison     = 4  // == != < <= > >= (неассоциативны)
	precBitwiseOr      = 5  // |
	precBitwiseXor     = 6  // ^
	precBitwiseAnd     = 7  // &
	precShift          = 8  // << >>
	precAdditive       = 9  // + -
	precMultiplicative = 10 // * / %
	precCast           = 11 // as
)

// getBinaryOperatorPrec возвращает приоритет оператора или -1.
// Присваивание и диапазоны разбираются отдельно, все бинарные операторы левоассоциативны.
func getBinaryOperatorPrec(kind token.Kind) int {
	switch kind {
	case token.OrOr:
		return precLogicalOr
	case token.AndAnd:
		return precLogicalAnd
	case token.EqEq, token.BangEq, token.Lt, token.LtEq, token.Gt, token.GtEq:
		return precComparison
	case token.Pipe:
		return precBitwiseOr
	case token.Caret:
		return precBitwiseXor
	case token.Amp:
		return precBitwiseAnd
	case token.Shl, token.Shr:
		return precShift
	case token.Plus, token.Minus:
		return precAdditive
	case token.Star, token.Slash, token.Percent:
		return precMultiplicative
	case token.KwAs:
		return precCast
	default:
		return -1 // не бинарный оператор
	}
}

// tokenKindToBinaryOp преобразует токен в тип бинарного оператора
func tokenKindToBinaryOp(kind token.Kind) ast.BinaryOp {
	switch kind {
	// Арифметические
	case token.Plus:
		return ast.BinAdd
	case token.Minus:
		return ast.BinSub
	case token.Star:
		return ast.BinMul
	case token.Slash:
		return ast.BinDiv
	case token.Percent:
		return ast.BinRem

	// Логические
	case token.AndAnd:
		return ast.BinAnd
	case token.OrOr:
		return ast.BinOr

	// Битовые
	case token.Caret:
		return ast.BinBitXor
	case token.Amp:
		return ast.BinBitAnd
	case token.Pipe:
		return ast.BinBitOr
	case token.Shl:
		return ast.BinShl
	case token.Shr:
		return ast.BinShr

	// Сравнения
	case token.EqEq:
		return ast.BinEq
	case token.BangEq:
		return ast.BinNe
	case token.Lt:
		return ast.BinLt
	case token.LtEq:
		return ast.BinLe
	case token.Gt:
		return ast.BinGt
	default:
		return ast.BinGe
	}
}

// compoundAssignOp: `+=` → BinAdd и т.д.
func compoundAssignOp(kind token.Kind) (ast.BinaryOp, bool) {
	switch kind {
	case token.PlusAssign:
		return ast.BinAdd, true
	case token.MinusAssign:
		return ast.BinSub, true
	case token.StarAssign:
		return ast.BinMul, true
	case token.SlashAssign:
		return ast.BinDiv, true
	case token.PercentAssign:
		return ast.BinRem, true
	case token.CaretAssign:
		return ast.BinBitXor, true
	case token.AmpAssign:
		return ast.BinBitAnd, true
	case token.PipeAssign:
		return ast.BinBitOr, true
	case token.ShlAssign:
		return ast.BinShl, true
	case token.ShrAssign:
		return ast.BinShr, true
	default:
		return 0, false
	}
}

func litKindOf(kind token.Kind) (ast.LitKind, bool) {
	switch kind {
	case token.IntLit:
		return ast.LitInt, true
	case token.FloatLit:
		return ast.LitFloat, true
	case token.CharLit:
		return ast.LitChar, true
	case token.ByteLit:
		return ast.LitByte, true
	case token.StringLit, token.RawStringLit:
		return ast.LitStr, true
	case token.ByteStringLit, token.RawByteStringLit:
		return ast.LitByteStr, true
	case token.CStringLit, token.RawCStringLit:
		return ast.LitCStr, true
	case token.KwTrue, token.KwFalse:
		return ast.LitBool, true
	default:
		return 0, false
	}
}
