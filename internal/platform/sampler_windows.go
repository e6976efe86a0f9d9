package platform

import (
	"os/exec"
	"strconv"
	"strings"
	"syscall"
	"time"
	"unsafe"
)

type sampler struct{}

type lastInputInfo struct {
	cbSize uint32
	dwTime uint32
}

func newSampler() ActivitySampler {
	return &sampler{}
}

func (provider *sampler) IdleDuration() time.Duration {
	info := lastInputInfo{cbSize: uint32(unsafe.Sizeof(lastInputInfo{}))}

	user32 := syscall.NewLazyDLL("user32.dll")
	getLastInputInfo := user32.NewProc("GetLastInputInfo")
	result, _, _ := getLastInputInfo.Call(uintptr(unsafe.Pointer(&info)))
	if result == 0 {
		return 0
	}

	kernel32 := syscall.NewLazyDLL("kernel32.dll")
	getTickCount64 := kernel32.NewProc("GetTickCount64")
	tickResult, _, _ := getTickCount64.Call()
	now := uint64(tickResult)

	// GetLastInputInfo reports a 32-bit tick count. Reassemble it against the
	// 64-bit "now": when the low word of now has already wrapped past the
	// stored value, the high word must be decremented before subtracting.
	lastInput := (now &^ 0xFFFFFFFF) | uint64(info.dwTime)
	if uint32(now) < info.dwTime {
		lastInput -= 1 << 32
	}
	if now < lastInput {
		return 0
	}
	return time.Duration(now-lastInput) * time.Millisecond
}

// mediaStatusScript asks the WinRT media transport controls session manager
// for the current playback status and prints it as an integer (4 = Playing).
const mediaStatusScript = `
Add-Type -AssemblyName System.Runtime.WindowsRuntime
$asTaskGeneric = ([System.WindowsRuntimeSystemExtensions].GetMethods() | Where-Object { $_.Name -eq 'AsTask' -and $_.GetParameters().Count -eq 1 -and $_.GetParameters()[0].ParameterType.Name -eq 'IAsyncOperation` + "`" + `1' })[0]
Function Await($winRtTask, $resultType) {
    $asTask = $asTaskGeneric.MakeGenericMethod($resultType)
    $netTask = $asTask.Invoke($null, @($winRtTask))
    $netTask.Wait(-1) | Out-Null
    $netTask.Result
}
[Windows.Media.Control.GlobalSystemMediaTransportControlsSessionManager, Windows.Media.Control, ContentType = WindowsRuntime] | Out-Null
$manager = Await ([Windows.Media.Control.GlobalSystemMediaTransportControlsSessionManager]::RequestAsync()) ([Windows.Media.Control.GlobalSystemMediaTransportControlsSessionManager])
$session = $manager.GetCurrentSession()
if ($session) { [int]$session.GetPlaybackInfo().PlaybackStatus } else { 0 }
`

const playbackStatusPlaying = 4

func (provider *sampler) MediaPlaying() bool {
	output, err := exec.Command("powershell", "-NoProfile", "-NonInteractive", "-Command", mediaStatusScript).Output()
	if err != nil {
		return false
	}
	status, err := strconv.Atoi(strings.TrimSpace(string(output)))
	if err != nil {
		return false
	}
	return status == playbackStatusPlaying
}
