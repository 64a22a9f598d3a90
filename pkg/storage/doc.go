// Package storage writes downloaded images to the output directory.
//
// The Manager creates the directory on construction and writes every file
// through a temporary sibling that is renamed into place once the stream has
// been copied completely. Re-running a download overwrites the earlier file;
// a failed stream never leaves a partial image behind.
//
// Usage:
//
//	manager, err := storage.NewManager(cfg.Output.Directory)
//	if err != nil {
//	    return err
//	}
//
//	n, err := manager.Save(body, target.Path)
package storage
