// Package logger provides a small wrapper around zap to offer:
//   - a global sugared logger with a sane console encoder,
//   - an optional plain-text run log file with rotation (lumberjack),
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level configuration and parsing utilities,
//   - convenience functions (Infof, ErrorKV, etc.).
//
// All services accept a context and extract the logger from it, enabling
// scoped, structured logging throughout the pipeline. The run log file is
// the persistent trace of a deployment run: every stage outcome and the
// final summary land there as well as on the console.
package logger
