package device

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/picotools/picoide/internal/config"
)

// Device emulates the microcontroller behind the web IDE: a console buffer,
// a file system, a command shell and scheduled reboots.
type Device struct {
	cfg    config.DeviceConfig
	logger *slog.Logger

	Console *ConsoleBuffer
	Files   *FileStore
	History *History
	shell   *Shell

	mu          sync.Mutex
	bootID      string
	rebootTimer *time.Timer
}

// New creates a device over cfg.Root and boots it
func New(cfg config.DeviceConfig, logger *slog.Logger) (*Device, error) {
	if logger == nil {
		logger = slog.Default()
	}

	files, err := NewFileStore(cfg.Root, cfg.BootFile)
	if err != nil {
		return nil, err
	}

	d := &Device{
		cfg:     cfg,
		logger:  logger,
		Console: NewConsoleBuffer(cfg.ConsoleCapacity),
		Files:   files,
		History: NewHistory(cfg.HistorySize),
	}
	d.shell = NewShell(files, d.Console, func() { d.ScheduleReboot(0) })
	d.boot()
	return d, nil
}

// BootID identifies the current boot; it changes on every reboot
func (d *Device) BootID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bootID
}

// say logs a line and mirrors it into the console
func (d *Device) say(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	d.logger.Info(msg, "component", "console")
	d.Console.Add(msg)
}

func (d *Device) boot() {
	d.mu.Lock()
	d.bootID = uuid.NewString()
	bootID := d.bootID
	d.mu.Unlock()

	d.say("=== PICOIDE DEVICE: FILE EDITOR + SERIAL MONITOR ===")
	d.say("SUCCESS: File system root: %s", d.Files.Root())
	d.say("SUCCESS: Boot ID: %s", bootID)
	if _, err := d.Files.Load(d.Files.BootFile()); err == nil {
		d.say("Running %s", d.Files.BootFile())
	}
	d.say("Complete Development Environment Ready!")
}

// ScheduleReboot reboots the device after delay. A pending reboot is replaced.
func (d *Device) ScheduleReboot(delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.rebootTimer != nil {
		d.rebootTimer.Stop()
	}
	d.rebootTimer = time.AfterFunc(delay, d.Reboot)
}

// Reboot resets the console and replays the boot sequence
func (d *Device) Reboot() {
	d.logger.Info("REBOOT: Executing scheduled reboot...")
	d.mu.Lock()
	d.rebootTimer = nil
	d.mu.Unlock()

	d.Console.Reset()
	d.boot()
}

// RebootPending reports whether a reboot is scheduled
func (d *Device) RebootPending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rebootTimer != nil
}

// SaveFile writes a file and schedules a reboot when the boot file changes.
// It returns the message shown to the user.
func (d *Device) SaveFile(name, content string) (string, error) {
	if err := d.Files.Save(name, content); err != nil {
		return "", err
	}
	if clean, err := cleanName(name); err == nil {
		name = clean
	}
	d.logger.Info("SUCCESS: File saved", "file", name, "bytes", len(content))

	if d.Files.IsBootFile(name) {
		d.logger.Info("REBOOT: boot file saved, scheduling reboot", "delay", d.cfg.RebootDelay)
		d.ScheduleReboot(d.cfg.RebootDelay)
		return fmt.Sprintf("File saved: %s - Rebooting to apply changes...", name), nil
	}
	return fmt.Sprintf("File saved: %s", name), nil
}

// RunCommand echoes command into the console, runs it and appends the
// result or the error.
func (d *Device) RunCommand(command string) (string, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return "", ErrCommandRequired
	}

	d.say(">>> %s", command)
	id := d.History.Begin(command)

	out, err := d.shell.Exec(command)
	if err != nil {
		d.say("Error: %v", err)
	} else if out != "" {
		w := &lineWriter{buf: d.Console}
		fmt.Fprintln(w, out)
	}

	d.History.Finish(id, out, err)
	return out, err
}

// Close cancels a pending reboot
func (d *Device) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.rebootTimer != nil {
		d.rebootTimer.Stop()
		d.rebootTimer = nil
	}
}
