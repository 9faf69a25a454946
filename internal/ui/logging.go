package ui

import "github.com/rs/zerolog"

// Logging is a ProgressSink that reports every event as a zerolog event
// instead of driving a terminal UI: backup/restore stages at debug level,
// scan/sync/per-file events at trace level. cmd/stool uses it as its sink.
type Logging struct {
	Log zerolog.Logger
}

func (s Logging) BeginBackup(name string) {
	s.Log.Debug().Str("archive", name).Msg("begin backup")
}
func (s Logging) BeginStaging(count int) {
	s.Log.Debug().Int("count", count).Msg("begin staging")
}
func (s Logging) BeginStage(name string) { s.Log.Debug().Str("name", name).Msg("begin stage") }
func (s Logging) EndStage()              { s.Log.Debug().Msg("end stage") }
func (s Logging) EndStaging()            { s.Log.Debug().Msg("end staging") }
func (s Logging) BeginCompress()         { s.Log.Debug().Msg("begin compress") }
func (s Logging) EndCompress()           { s.Log.Debug().Msg("end compress") }
func (s Logging) EndBackup(success bool) {
	s.Log.Debug().Bool("success", success).Msg("end backup")
}

func (s Logging) BeginRestore(name string) {
	s.Log.Debug().Str("archive", name).Msg("begin restore")
}
func (s Logging) BeginExtract()         { s.Log.Debug().Msg("begin extract") }
func (s Logging) EndExtract()           { s.Log.Debug().Msg("end extract") }
func (s Logging) BeginRestoreSP(name string) {
	s.Log.Debug().Str("name", name).Msg("begin restore subpath")
}
func (s Logging) EndRestoreSP() { s.Log.Debug().Msg("end restore subpath") }
func (s Logging) EndRestore(success bool) {
	s.Log.Debug().Bool("success", success).Msg("end restore")
}

func (s Logging) BeginScan()    { s.Log.Trace().Msg("begin scan") }
func (s Logging) EndScan()      { s.Log.Trace().Msg("end scan") }
func (s Logging) BeginPrepare() { s.Log.Trace().Msg("begin prepare") }
func (s Logging) EndPrepare()   { s.Log.Trace().Msg("end prepare") }
func (s Logging) BeginSync(n int) {
	s.Log.Trace().Int("ops", n).Msg("begin sync")
}
func (s Logging) SyncProgress(done int) { s.Log.Trace().Int("done", done).Msg("sync progress") }
func (s Logging) EndSync()              { s.Log.Trace().Msg("end sync") }
func (s Logging) BeginFile(prefix, name string, size int64) {
	s.Log.Trace().Str("prefix", prefix).Str("name", name).Int64("size", size).Msg("begin file")
}
func (s Logging) FileProgress(bytes int64) { s.Log.Trace().Int64("bytes", bytes).Msg("file progress") }
func (s Logging) EndFile()                 { s.Log.Trace().Msg("end file") }

var _ ProgressSink = Logging{}
