package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	AppLogger   *log.Logger
	MailLogger  *log.Logger
	ErrorLogger *log.Logger

	logLevel    string
	appLogFile  *lumberjack.Logger
	mailLogFile *lumberjack.Logger
	initialized bool
)

// Rotation controls how the log files are rolled over.
type Rotation struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultRotation is used when the configuration does not say otherwise.
var DefaultRotation = Rotation{MaxSizeMB: 10, MaxBackups: 5, MaxAgeDays: 30, Compress: true}

func InitGlobalLoggers(appLogPath, mailLogPath, level string) error {
	return InitGlobalLoggersWithRotation(appLogPath, mailLogPath, level, DefaultRotation)
}

func InitGlobalLoggersWithRotation(appLogPath, mailLogPath, level string, rot Rotation) error {
	if initialized && appLogFile != nil && mailLogFile != nil &&
		appLogFile.Filename == appLogPath && mailLogFile.Filename == mailLogPath &&
		strings.ToUpper(level) == logLevel {
		return nil
	}
	closeFiles()

	logLevel = strings.ToUpper(level)
	if logLevel == "" {
		logLevel = "INFO"
	}

	ErrorLogger = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)

	var appWriter io.Writer
	appWriter, appLogFile = openRotating(appLogPath, rot, "app")
	AppLogger = log.New(appWriter, "APP: ", log.Ldate|log.Ltime|log.Lshortfile)

	var mailWriter io.Writer
	mailWriter, mailLogFile = openRotating(mailLogPath, rot, "mail")
	MailLogger = log.New(mailWriter, "MAIL: ", log.Ldate|log.Ltime|log.Lshortfile)

	if !initialized {
		AppLogger.Printf("App logger initialized. Log level: %s. Output file: %s", logLevel, describe(appLogFile))
		MailLogger.Printf("Mail logger initialized. Log level: %s. Output file: %s", logLevel, describe(mailLogFile))
	}
	initialized = true
	return nil
}

func openRotating(path string, rot Rotation, name string) (io.Writer, *lumberjack.Logger) {
	if path == "" {
		return io.Discard, nil
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		ErrorLogger.Printf("Failed to create %s log directory %s: %v. Logs will be discarded.", name, dir, err)
		return io.Discard, nil
	}
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    rot.MaxSizeMB,
		MaxBackups: rot.MaxBackups,
		MaxAge:     rot.MaxAgeDays,
		Compress:   rot.Compress,
	}
	return lj, lj
}

func describe(lj *lumberjack.Logger) string {
	if lj == nil {
		return "(discarded)"
	}
	return lj.Filename
}

// Level returns the active log level.
func Level() string {
	return logLevel
}

func Info(format string, v ...interface{}) {
	if AppLogger != nil && (logLevel == "INFO" || logLevel == "DEBUG") {
		AppLogger.Printf(format, v...)
	}
}

func Debug(format string, v ...interface{}) {
	if AppLogger != nil && logLevel == "DEBUG" {
		AppLogger.Printf(format, v...)
	}
}

func Warn(format string, v ...interface{}) {
	if AppLogger != nil && (logLevel == "WARN" || logLevel == "INFO" || logLevel == "DEBUG") {
		AppLogger.Printf("WARN: "+format, v...)
	}
}

func Error(format string, v ...interface{}) {
	message := fmt.Sprintf(format, v...)
	if ErrorLogger != nil {
		ErrorLogger.Print(message)
	}
	if AppLogger != nil && appLogFile != nil {
		AppLogger.Print(message)
	}
}

func Fatal(format string, v ...interface{}) {
	message := fmt.Sprintf(format, v...)
	if ErrorLogger != nil {
		ErrorLogger.Fatal(message)
	} else {
		log.Fatal(message)
	}
}

func MailInfo(format string, v ...interface{}) {
	if MailLogger != nil && (logLevel == "INFO" || logLevel == "DEBUG") {
		MailLogger.Printf(format, v...)
	}
}

func MailDebug(format string, v ...interface{}) {
	if MailLogger != nil && logLevel == "DEBUG" {
		MailLogger.Printf(format, v...)
	}
}

func MailError(format string, v ...interface{}) {
	message := fmt.Sprintf(format, v...)
	if ErrorLogger != nil {
		ErrorLogger.Print(message)
	}
	if MailLogger != nil && mailLogFile != nil {
		MailLogger.Print(message)
	}
}

func closeFiles() {
	if appLogFile != nil {
		appLogFile.Close()
		appLogFile = nil
	}
	if mailLogFile != nil {
		mailLogFile.Close()
		mailLogFile = nil
	}
}

func CloseLogFiles() {
	if appLogFile != nil && AppLogger != nil {
		AppLogger.Println("Closing app log file.")
	}
	if mailLogFile != nil && MailLogger != nil {
		MailLogger.Println("Closing mail log file.")
	}
	closeFiles()
	initialized = false // allow re-initialization (tests)
}
