// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package util

import (
	"fmt"
	"github.com/iancoleman/strcase"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/mem"
	"net/http"
	_ "net/http/pprof"
	"runtime"
	"strings"
)

// LogMemStats writes a debug snapshot of the Go heap, used when long running commands finish.
func LogMemStats(label string) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	log.Debug().Msgf("%s: heap %d MiB in use, %d MiB from the OS, %d objects, %d GC cycles",
		label, ms.HeapAlloc/1024/1024, ms.Sys/1024/1024, ms.HeapObjects, ms.NumGC)
}

func ApplyCliSettings(verbose bool, profile bool, pprofPort uint16) {
	if verbose {
		log.Warn().Msgf("verbosity up")
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if profile {
		log.Info().Msgf("profiling is enabled for this session. Server will listen on port %d", pprofPort)
		go func() {
			if err := http.ListenAndServe(fmt.Sprintf("localhost:%d", pprofPort), nil); err != nil {
				log.Error().Err(err).Msgf("error starting profiling server on port %d", pprofPort)
				return
			}
		}()
	}
}

// Memory is the memory use of the host and of this process.
type Memory struct {
	HostTotalMiB     uint64  `json:"hostTotalMiB"`
	HostAvailableMiB uint64  `json:"hostAvailableMiB"`
	HostUsedPercent  float64 `json:"hostUsedPercent"`
	HeapAllocMiB     uint64  `json:"heapAllocMiB"`
	Goroutines       int     `json:"goroutines"`
}

// MemoryUsage never fails, host figures are left empty when they can't be read.
func MemoryUsage() Memory {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	m := Memory{
		HeapAllocMiB: ms.HeapAlloc / (1024 * 1024),
		Goroutines:   runtime.NumGoroutine(),
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		m.HostTotalMiB = vm.Total / (1024 * 1024)
		m.HostAvailableMiB = vm.Available / (1024 * 1024)
		m.HostUsedPercent = vm.UsedPercent
	} else {
		log.Debug().Err(err).Msgf("error getting host memory")
	}

	return m
}

// ToScreamingSnakeCase turns Go identifiers like TLSCert into TLS_CERT. Space separated
// lists, as found in validator params, keep their separators.
func ToScreamingSnakeCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strcase.ToScreamingSnake(w)
	}

	return strings.Join(words, " ")
}
