// Package engines recognizes the authoring engine of a game from the
// marker files its runtime ships with.
package engines

import "strings"

// Signature pairs a marker filename with the engine that produces it
type Signature struct {
	Marker string
	Engine string
}

// signatures is ordered; Match returns the first entry whose marker
// equals the filename, ignoring case.
var signatures = []Signature{
	{"data.xp3", "KiriKiri"},
	{"data.xp4", "KiriKiri"},
	{"arc.nsa", "NScripter"},
	{"arc1.nsa", "NScripter"},
	{"nscript.dat", "NScripter"},
	{"BGI.exe", "BGI/Ethornell"},
	{"Majiro.arc", "Majiro"},
	{"rio.arc", "Liar-soft"},
	{"UnityPlayer.dll", "Unity"},
	{"GameAssembly.dll", "Unity/IL2CPP"},
	{"AdvHD.exe", "WillPlus AdvHD"},
	{"SiglusEngine.exe", "SiglusEngine"},
	{"RealLive.exe", "RealLive"},
	{"AGERC.DLL", "AGE"},
	{"CatSystem2.exe", "CatSystem2"},
	{"cg.mpk", "Malie"},
	{"start.meg", "Artemis"},
}

// Signatures returns a copy of the signature table in match order
func Signatures() []Signature {
	out := make([]Signature, len(signatures))
	copy(out, signatures)
	return out
}

// Match returns the engine whose marker equals filename (case-insensitive).
// Only whole filenames are compared; paths must be reduced to their base
// name by the caller.
func Match(filename string) (string, bool) {
	if filename == "" {
		return "", false
	}
	for _, sig := range signatures {
		if strings.EqualFold(filename, sig.Marker) {
			return sig.Engine, true
		}
	}
	return "", false
}
