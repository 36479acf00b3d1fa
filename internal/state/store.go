package state

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const (
	// compactThreshold — размер набора, после которого запускается сжатие.
	compactThreshold = 10000
	// compactKeep — сколько идентификаторов остаётся после сжатия.
	compactKeep = 8000
)

// SeenSet — множество идентификаторов уже отправленных твитов.
type SeenSet map[string]struct{}

// Has сообщает, есть ли идентификатор в множестве.
func (s SeenSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add добавляет идентификатор в множество.
func (s SeenSet) Add(id string) {
	s[id] = struct{}{}
}

// Len возвращает размер множества.
func (s SeenSet) Len() int {
	return len(s)
}

// Store хранит множество отправленных идентификаторов в текстовом файле:
// по одному идентификатору на строку, в обычной работе файл только дописывается.
type Store struct {
	path string
}

// NewStore создаёт файловый стор.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load читает все непустые строки файла. Отсутствующий файл — не ошибка,
// возвращается пустое множество.
func (s *Store) Load() (SeenSet, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return SeenSet{}, nil
		}
		return SeenSet{}, fmt.Errorf("open seen file: %w", err)
	}
	defer f.Close()

	set := SeenSet{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		id := strings.TrimSpace(scanner.Text())
		if id != "" {
			set.Add(id)
		}
	}
	if err := scanner.Err(); err != nil {
		return SeenSet{}, fmt.Errorf("read seen file: %w", err)
	}
	return set, nil
}

// Append дописывает идентификатор отдельной строкой и сбрасывает данные на
// диск до возврата: после успешного Append запись не должна теряться даже
// при немедленном падении процесса.
func (s *Store) Append(id string) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create seen directory: %w", err)
		}
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open seen file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(id + "\n"); err != nil {
		return fmt.Errorf("append seen id: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync seen file: %w", err)
	}
	return nil
}

// Compact ограничивает рост множества. Если записей больше compactThreshold,
// остаются compactKeep наибольших по числовому значению идентификаторов
// (идентификаторы твитов монотонно растут, поэтому наибольшие — самые свежие;
// нечисловые идентификаторы считаются наименьшими и вытесняются первыми).
// Файл переписывается целиком атомарно, через временный файл и rename.
func (s *Store) Compact(set SeenSet) (SeenSet, error) {
	if len(set) <= compactThreshold {
		return set, nil
	}

	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return numericRank(ids[i]) < numericRank(ids[j])
	})
	kept := ids[len(ids)-compactKeep:]

	var sb strings.Builder
	result := make(SeenSet, len(kept))
	for _, id := range kept {
		sb.WriteString(id)
		sb.WriteByte('\n')
		result.Add(id)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(sb.String()), 0644); err != nil {
		return set, fmt.Errorf("write temp seen file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return set, fmt.Errorf("rename temp seen file: %w", err)
	}

	return result, nil
}

// numericRank переводит идентификатор в число для сортировки при сжатии.
// Нечисловые идентификаторы получают ранг 0.
func numericRank(id string) uint64 {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
