// Package configuration loads the INI-style settings file that tunes the
// snapshot path, the edge VM's storage file, audit/receipt behavior and
// logging without requiring a rebuild. Memory size, stack depth, register
// count and file table size are compile-time constants and are not read
// from it.
package configuration

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Config holds the parsed settings, organized by section.
type Config struct {
	settings map[string]map[string]string
	filePath string
	mu       sync.RWMutex
}

var (
	globalConfig *Config
	once         sync.Once
)

// Initialize loads the global configuration from configPath, creating a
// default file if none exists. A settings.local.cfg in the working
// directory, if present, is
// layered on top to override individual keys without touching the checked-in
// defaults.
func Initialize(configPath string) error {
	var err error
	once.Do(func() {
		globalConfig, err = loadConfig(configPath)
		if err != nil {
			return
		}
		localConfigPath := "settings.local.cfg"
		if _, statErr := os.Stat(localConfigPath); statErr == nil {
			_ = globalConfig.loadLocalConfig(localConfigPath)
		}
	})
	return err
}

func loadConfig(filePath string) (*Config, error) {
	config := &Config{
		settings: make(map[string]map[string]string),
		filePath: filePath,
	}
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		config.createDefaultConfig()
		if err := config.saveToFile(); err != nil {
			return nil, fmt.Errorf("failed to create default config: %v", err)
		}
		return config, nil
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if err := parseIniInto(file, config.settings); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) loadLocalConfig(filePath string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	return parseIniInto(file, c.settings)
}

func parseIniInto(r *os.File, settings map[string]map[string]string) error {
	scanner := bufio.NewScanner(r)
	currentSection := ""

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = line[1 : len(line)-1]
			if settings[currentSection] == nil {
				settings[currentSection] = make(map[string]string)
			}
			continue
		}

		if strings.Contains(line, "=") && currentSection != "" {
			parts := strings.SplitN(line, "=", 2)
			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])
			settings[currentSection][key] = value
		}
	}
	return scanner.Err()
}

// createDefaultConfig seeds the default settings file. The [VM] keys and the
// [EdgeVM] sizing keys (mem_size, num_regs, stack_size) record the
// compile-time constants and are not read back by any package;
// Audit.receipt_path is read but not seeded, so its built-in default
// applies.
func (c *Config) createDefaultConfig() {
	c.settings["VM"] = map[string]string{
		"init_memory_size": "655365",
		"stack_size":       "1024",
		"num_registers":    "32",
		"max_files":        "16",
		"list_buffer_size": "1024",
	}

	c.settings["Snapshot"] = map[string]string{
		"path": "snapshot.bin",
	}

	c.settings["Audit"] = map[string]string{
		"enabled":  "true",
		"db_path":  "corevm_audit.db",
		"hmac_key": "corevm-dev-receipt-key",
	}

	c.settings["EdgeVM"] = map[string]string{
		"mem_size":     "4096",
		"num_regs":     "8",
		"stack_size":   "256",
		"storage_file": "/system/systemdata.dat",
	}

	c.settings["Debug"] = map[string]string{
		"enable_debug_logging": "true",
		"log_level":            "INFO",
		"log_file":             "corevm.log",
		"max_log_size_mb":      "10",
		"log_rotation_count":   "3",
		"log_vm":               "true",
		"log_host":             "true",
		"log_snapshot":         "true",
		"log_assembler":        "true",
		"log_edgevm":           "true",
		"log_audit":            "true",
		"log_general":          "true",
	}
}

func (c *Config) saveToFile() error {
	dir := filepath.Dir(c.filePath)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	file, err := os.Create(c.filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	file.WriteString("; corevm configuration file\n")
	file.WriteString("; generated automatically - edit with care\n;\n\n")

	sections := []string{"VM", "Snapshot", "Audit", "EdgeVM", "Debug"}

	for _, section := range sections {
		if settings, exists := c.settings[section]; exists {
			file.WriteString(fmt.Sprintf("[%s]\n", section))
			for key, value := range settings {
				file.WriteString(fmt.Sprintf("%s = %s\n", key, value))
			}
			file.WriteString("\n")
		}
	}

	return nil
}

// GetString returns a string setting, or defaultValue if unset or unloaded.
func GetString(section, key, defaultValue string) string {
	if globalConfig == nil {
		return defaultValue
	}

	globalConfig.mu.RLock()
	defer globalConfig.mu.RUnlock()

	if sectionMap, exists := globalConfig.settings[section]; exists {
		if value, exists := sectionMap[key]; exists {
			return value
		}
	}

	return defaultValue
}

// GetInt returns an integer setting, or defaultValue if unset or unparsable.
func GetInt(section, key string, defaultValue int) int {
	str := GetString(section, key, "")
	if str == "" {
		return defaultValue
	}
	if value, err := strconv.Atoi(str); err == nil {
		return value
	}
	return defaultValue
}

// GetBool returns a boolean setting, or defaultValue if unset or unparsable.
func GetBool(section, key string, defaultValue bool) bool {
	str := GetString(section, key, "")
	if str == "" {
		return defaultValue
	}
	if value, err := strconv.ParseBool(str); err == nil {
		return value
	}
	return defaultValue
}

// GetDuration returns a duration setting, or defaultValue if unset or unparsable.
func GetDuration(section, key string, defaultValue time.Duration) time.Duration {
	str := GetString(section, key, "")
	if str == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(str); err == nil {
		return value
	}
	return defaultValue
}

// Save writes the current in-memory configuration back to its file.
func Save() error {
	if globalConfig == nil {
		return fmt.Errorf("configuration not initialized")
	}
	globalConfig.mu.RLock()
	defer globalConfig.mu.RUnlock()
	return globalConfig.saveToFile()
}
