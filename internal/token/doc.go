// Package token defines lexical token kinds and trivia for Rust sources.
// Invariants:
//   - Token.Text is a slice of the original source.
//   - Token.Span matches Text exactly (Start..End).
//   - Comments and doc comments are leading Trivia and never appear in the
//     main token stream. Doc comments are not turned into attributes.
//   - Compound operators are lexed greedily (`>>=` is one token). The parser
//     splits them where generics need a single `>`.
//   - Lifetimes and labels are one Lifetime token including the quote.
package token
