package notification

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/charlievieth/fastwalk"
	"github.com/dustin/go-humanize"
	"github.com/scylladb/go-set/strset"
)

// Discord rejects webhook uploads above 8 MiB without a boosted server.
const maxAttachmentSize = 8 << 20

// ResolveAttachments loads every attachment into memory before any network
// call is made. Paths pointing at a directory expand to the regular files
// directly inside it, sorted by name. Repeated paths are sent once, input
// order is preserved otherwise. Any missing or unreadable path aborts the
// whole resolution so a partial set is never sent.
func ResolveAttachments(paths []string) ([]Attachment, error) {
	var expanded []string

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, &AttachmentError{Path: p, Err: err}
		}

		if info.IsDir() {
			files, err := filesInDir(p)
			if err != nil {
				return nil, &AttachmentError{Path: p, Err: err}
			}
			expanded = append(expanded, files...)
			continue
		}

		expanded = append(expanded, p)
	}

	seen := strset.New()
	attachments := make([]Attachment, 0, len(expanded))

	for _, p := range expanded {
		if seen.Has(p) {
			continue
		}
		seen.Add(p)

		data, err := os.ReadFile(p)
		if err != nil {
			return nil, &AttachmentError{Path: p, Err: err}
		}

		if len(data) > maxAttachmentSize {
			return nil, &AttachmentError{Path: p, Err: fmt.Errorf("file is %s, webhook uploads are limited to %s",
				humanize.IBytes(uint64(len(data))), humanize.IBytes(maxAttachmentSize))}
		}

		attachments = append(attachments, Attachment{
			Name: filepath.Base(p),
			Path: p,
			Data: data,
		})
	}

	return attachments, nil
}

func filesInDir(folder string) ([]string, error) {
	var files []string
	var mutex sync.Mutex

	conf := fastwalk.Config{
		Follow: false,
	}

	walkFn := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path == folder {
				return nil
			}
			// only the top level of the folder is attached
			return fs.SkipDir
		}

		if !d.Type().IsRegular() {
			return nil
		}

		mutex.Lock()
		files = append(files, path)
		mutex.Unlock()

		return nil
	}

	if err := fastwalk.Walk(&conf, folder, walkFn); err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
