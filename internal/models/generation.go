package models

// GeneratedSource represents a rendered stub source file
type GeneratedSource struct {
	TypeName    string // canonical name of the generated type
	PackageName string // package of the generated type, empty for the default package
	FilePath    string // path of the source file relative to the output root
	Content     string // complete Java source text
}
