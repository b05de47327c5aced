package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Шаблон: разбор блоков
	ParseInfo            Code = 1000
	ParseUnterminated    Code = 1001
	ParseEmptyData       Code = 1002
	ParseEmptyInclude    Code = 1003
	ParseIncludeCycle    Code = 1004
	ParseIncludeNotFound Code = 1005

	// Ввод-вывод
	IOInfo         Code = 2000
	IOOpenFailed   Code = 2001
	IOReadFailed   Code = 2002
	IOWriteFailed  Code = 2003
	IOStatFailed   Code = 2004
	IORemoveFailed Code = 2005

	// Хост-компилятор и объявления
	HostInfo              Code = 3000
	HostBadDeclaration    Code = 3001
	HostSyntaxError       Code = 3002
	HostManifestNotFound  Code = 3003
	HostManifestMalformed Code = 3004
	HostStaleOutput       Code = 3005
)

var (
	codeDescription = map[Code]string{
		UnknownCode:           "Unknown error",
		ParseInfo:             "Template parse information",
		ParseUnterminated:     "Unterminated block",
		ParseEmptyData:        "Empty data block",
		ParseEmptyInclude:     "Empty include block",
		ParseIncludeCycle:     "Include cycle",
		ParseIncludeNotFound:  "Included file not found",
		IOInfo:                "I/O information",
		IOOpenFailed:          "Could not open file",
		IOReadFailed:          "Could not read file",
		IOWriteFailed:         "Could not write file",
		IOStatFailed:          "Could not read file metadata",
		IORemoveFailed:        "Could not remove file",
		HostInfo:              "Host compiler information",
		HostBadDeclaration:    "Declaration metadata malformed",
		HostSyntaxError:       "Generated code does not parse",
		HostManifestNotFound:  "Project manifest not found",
		HostManifestMalformed: "Project manifest malformed",
		HostStaleOutput:       "Generated output is stale",
	}
)

func (c Code) ID() string {
	if int(c) >= 1000 && int(c) < 4000 {
		return fmt.Sprintf("NATE%04d", int(c))
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
