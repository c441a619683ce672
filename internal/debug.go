package internal

import (
	"fmt"
	"log"
	"os"
	"os/user"
	"regexp"
	"sort"
	"strings"

	"github.com/earthboundkid/versioninfo/v2"
)

var sensitiveRegex = regexp.MustCompile(`(?i)(PASSWORD|API_KEY|ACCESS_KEY|SECRET|TOKEN)`)

func Version() string {
	return versioninfo.Short()
}

func ShowVersion() {
	log.Printf("Version: %s\n", Version())
}

// EnvironmentVars logs the environment variables whose names start with one
// of prefixes (all of them when none are given), masking sensitive values.
func EnvironmentVars(prefixes ...string) {
	log.Println("Environment variables")
	for _, line := range redactEnvironment(os.Environ(), prefixes) {
		log.Printf("  %s\n", line)
	}
}

func redactEnvironment(environ []string, prefixes []string) []string {
	lines := make([]string, 0, len(environ))
	for _, entry := range environ {
		kv := strings.SplitN(entry, "=", 2)
		if len(kv) != 2 || !hasAnyPrefix(kv[0], prefixes) {
			continue
		}
		if sensitiveRegex.MatchString(kv[0]) {
			lines = append(lines, fmt.Sprintf("%s: ********", kv[0]))
		} else {
			lines = append(lines, fmt.Sprintf("%s: %s", kv[0], kv[1]))
		}
	}
	sort.Strings(lines)
	return lines
}

func hasAnyPrefix(key string, prefixes []string) bool {
	if len(prefixes) == 0 {
		return true
	}
	for _, p := range prefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

func UserInfo() {
	log.Printf("PID: %d", os.Getpid())
	currentUser, err := user.Current()
	if err != nil {
		log.Printf("Error getting current user: %v", err)
		return
	}
	log.Printf("User: uid=%s(%s) gid=%s", currentUser.Uid, currentUser.Username, currentUser.Gid)
}
