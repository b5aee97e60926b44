package entities

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// RelativePath относительный путь без выхода за пределы корня.
// Создается только через ValidateRelativePath, разделитель всегда '/'.
type RelativePath string

// ValidateRelativePath проверяет путь из архива на абсолютность и обход каталогов
func ValidateRelativePath(candidate string) (RelativePath, error) {
	if strings.ContainsRune(candidate, 0) {
		return "", fmt.Errorf("%w: %q содержит нулевой байт", ErrPathTraversal, candidate)
	}

	normalized := strings.ReplaceAll(candidate, `\`, "/")

	if strings.HasPrefix(normalized, "/") || hasDriveLetter(normalized) {
		return "", fmt.Errorf("%w: %q является абсолютным", ErrPathTraversal, candidate)
	}
	// В Windows двоеточие в имени означает том или альтернативный поток
	if runtime.GOOS == "windows" && strings.Contains(normalized, ":") {
		return "", fmt.Errorf("%w: %q содержит двоеточие", ErrPathTraversal, candidate)
	}

	parts := make([]string, 0, strings.Count(normalized, "/")+1)
	for _, part := range strings.Split(normalized, "/") {
		switch part {
		case "", ".":
			continue
		case "..":
			return "", fmt.Errorf("%w: %q выходит за пределы корня", ErrPathTraversal, candidate)
		}
		parts = append(parts, part)
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("%w: пустой путь %q", ErrPathTraversal, candidate)
	}

	return RelativePath(strings.Join(parts, "/")), nil
}

// hasDriveLetter проверяет пути вида C:/ и C:, имя a:notes.txt допустимо
func hasDriveLetter(path string) bool {
	if len(path) < 2 || path[1] != ':' {
		return false
	}
	if len(path) > 2 && path[2] != '/' {
		return false
	}
	c := path[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// OSPath возвращает путь с разделителем текущей ОС
func (p RelativePath) OSPath() string {
	return filepath.FromSlash(string(p))
}

// Join строит путь внутри корня root
func (p RelativePath) Join(root string) string {
	return filepath.Join(root, p.OSPath())
}

// String возвращает путь в виде строки
func (p RelativePath) String() string {
	return string(p)
}
