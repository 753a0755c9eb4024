package ast

import (
	"unsafescan/internal/source"
)

// File is the root of one parsed source file: a crate root or an
// out-of-line module body.
type File struct {
	Span   source.Span
	Source source.FileID
	Attrs  []Attr // только inner-атрибуты `#![...]`
	Items  []ItemID
}

type Files struct {
	Arena *Arena[File]
}

func NewFiles(capHint uint) *Files {
	return &Files{
		Arena: NewArena[File](capHint),
	}
}

func (f *Files) New(sp source.Span) FileID {
	return FileID(f.Arena.Allocate(File{
		Span:   sp,
		Source: sp.File,
		Items:  make([]ItemID, 0),
	}))
}

func (f *Files) Get(id FileID) *File {
	return f.Arena.Get(uint32(id))
}
