/*
DESCRIPTION
  Jpegwatch watches a directory and decodes any JPEG file that appears in
  it, logging success or failure for each one. It is intended as a
  long-running diagnostic tool for a directory fed by some other capture
  process.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package main implements jpegwatch, a directory-watching JPEG decode checker.
package main

import (
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/jpeg/codec/jpeg"
)

// Logging related constants, matching the rotation knobs other long-running
// AusOcean daemons use.
const (
	logMaxSize   = 100 // MB
	logMaxBackup = 10
	logMaxAge    = 28 // days
	logVerbosity = logging.Debug
	logSuppress  = false
)

func main() {
	dirPtr := flag.String("dir", "", "Directory to watch for new JPEG files.")
	logPathPtr := flag.String("logpath", "jpegwatch.log", "Path to write the rotated log file to.")
	flag.Parse()

	if *dirPtr == "" {
		os.Stderr.WriteString("jpegwatch: -dir is required\n")
		os.Exit(1)
	}

	fileLog := &lumberjack.Logger{
		Filename:   *logPathPtr,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	l := logging.New(logVerbosity, fileLog, logSuppress)
	jpeg.Log = l

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		l.Fatal("could not create watcher", "error", err.Error())
	}
	defer watcher.Close()

	if err := watcher.Add(*dirPtr); err != nil {
		l.Fatal("could not watch directory", "error", err.Error(), "dir", *dirPtr)
	}
	l.Info("watching directory", "dir", *dirPtr)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !isJPEGCreateOrWrite(event) {
				continue
			}
			decodeAndLog(l, event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			l.Error("watcher error", "error", err.Error())
		}
	}
}

func isJPEGCreateOrWrite(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return false
	}
	ext := strings.ToLower(filepath.Ext(event.Name))
	return ext == ".jpg" || ext == ".jpeg"
}

func decodeAndLog(l logging.Logger, path string) {
	buf, err := os.ReadFile(path)
	if err != nil {
		l.Warning("could not read file", "error", err.Error(), "path", path)
		return
	}

	img, err := jpeg.Decode(buf, jpeg.WithLogger(l))
	if err != nil {
		l.Error("could not decode JPEG", "error", err.Error(), "path", path)
		return
	}
	l.Info("decoded JPEG", "path", path, "bounds", img.Bounds().String())
}
