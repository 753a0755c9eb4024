package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0
	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexTokenTooLong             Code = 1005
	LexUnterminatedChar         Code = 1006
	LexBadRawString             Code = 1007
	LexEmptyChar                Code = 1008

	// Парсерные
	SynInfo                Code = 2000
	SynUnexpectedToken     Code = 2001
	SynUnclosedDelimiter   Code = 2002
	SynUnclosedParen       Code = 2006
	SynUnclosedBrace       Code = 2007
	SynUnclosedBracket     Code = 2008
	SynUnclosedAngle       Code = 2010
	SynExpectSemicolon     Code = 2012
	SynModifierNotAllowed  Code = 2015
	SynAttributeNotAllowed Code = 2016
	SynDeprecatedSyntax    Code = 2017
	SynIllegalItemInExtern Code = 2026
	SynExpectBlock         Code = 2030

	// items & paths
	SynUnexpectedTopLevel Code = 2101
	SynExpectIdentifier   Code = 2102
	SynExpectPathSeg      Code = 2103
	SynEmptyUseGroup      Code = 2106
	SynExpectFnAfterQual  Code = 2107

	// types, patterns, expressions
	SynInfoTypeExpr       Code = 2200
	SynExpectRightBracket Code = 2201
	SynExpectType         Code = 2202
	SynExpectExpression   Code = 2203
	SynExpectColon        Code = 2204
	SynInvalidTupleIndex  Code = 2206
	SynVariadicMustBeLast Code = 2207
	SynExpectPattern      Code = 2208
	SynExpectFatArrow     Code = 2209
	SynChainedComparison  Code = 2210

	// macros
	SynMacroExpectDelim   Code = 2300
	SynMacroArgsNotParsed Code = 2301

	// ввод/вывод и модули
	IOLoadFileError   Code = 4001
	IOModuleNotFound  Code = 4002
	IOModuleAmbiguous Code = 4003
	IOModuleCycle     Code = 4004
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnknownChar:              "Unknown character",
		LexUnterminatedString:       "Unterminated string literal",
		LexUnterminatedBlockComment: "Unterminated block comment",
		LexBadNumber:                "Invalid number literal",
		LexTokenTooLong:             "Token too long",
		LexUnterminatedChar:         "Unterminated character literal",
		LexBadRawString:             "Malformed raw string literal",
		LexEmptyChar:                "Empty character literal",
		SynInfo:                     "Syntax information",
		SynUnexpectedToken:          "Unexpected token",
		SynUnclosedDelimiter:        "Unclosed delimiter",
		SynUnclosedParen:            "Unclosed parenthesis",
		SynUnclosedBrace:            "Unclosed brace",
		SynUnclosedBracket:          "Unclosed bracket",
		SynUnclosedAngle:            "Unclosed angle bracket",
		SynExpectSemicolon:          "Expected semicolon",
		SynModifierNotAllowed:       "Modifier not allowed here",
		SynAttributeNotAllowed:      "Attribute not allowed here",
		SynDeprecatedSyntax:         "Deprecated syntax",
		SynIllegalItemInExtern:      "Item not allowed in extern block",
		SynExpectBlock:              "Expected block",
		SynUnexpectedTopLevel:       "Expected item",
		SynExpectIdentifier:         "Expected identifier",
		SynExpectPathSeg:            "Expected path segment",
		SynEmptyUseGroup:            "Malformed use group",
		SynExpectFnAfterQual:        "Expected `fn` after function qualifiers",
		SynInfoTypeExpr:             "Type expression information",
		SynExpectRightBracket:       "Expected closing bracket",
		SynExpectType:               "Expected type",
		SynExpectExpression:         "Expected expression",
		SynExpectColon:              "Expected colon",
		SynInvalidTupleIndex:        "Invalid tuple index",
		SynVariadicMustBeLast:       "Variadic parameter must be last",
		SynExpectPattern:            "Expected pattern",
		SynExpectFatArrow:           "Expected `=>`",
		SynChainedComparison:        "Comparison operators cannot be chained",
		SynMacroExpectDelim:         "Expected macro delimiter",
		SynMacroArgsNotParsed:       "Macro arguments left unexpanded",
		IOLoadFileError:             "Cannot load file",
		IOModuleNotFound:            "Module file not found",
		IOModuleAmbiguous:           "Module file is ambiguous",
		IOModuleCycle:               "Module cycle",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
