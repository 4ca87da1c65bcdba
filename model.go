package direct

import (
	"errors"
	"fmt"
	"time"
)

// Status is a snapshot of the mirror's health as served at /api.
type Status struct {
	Version string        `json:"version"`
	Server  string        `json:"server"`
	Session StatusSession `json:"session"`
	S3      StatusS3      `json:"s3"`
	Debug   StatusDebug   `json:"debug"`
}

// StatusSession reports when the mirror process started and how long it has run.
type StatusSession struct {
	Boot   time.Time `json:"boot"`
	Uptime string    `json:"uptime"`
}

// StatusS3 holds the mirror's object storage counters.
type StatusS3 struct {
	Uploads   string `json:"uploads"`
	Downloads string `json:"downloads"`
	Stored    string `json:"stored"`
}

// StatusDebug groups the memory and disk readings.
type StatusDebug struct {
	Memory  StatusMemory  `json:"memory"`
	Storage StatusStorage `json:"storage"`
}

// StatusMemory is the mirror's memory use.
type StatusMemory struct {
	Used    string        `json:"used"`
	Process StatusProcess `json:"process"`
}

// StatusProcess breaks memory use down by runtime region.
type StatusProcess struct {
	RSS          string `json:"rss"`
	HeapTotal    string `json:"heapTotal"`
	HeapUsed     string `json:"heapUsed"`
	External     string `json:"external"`
	ArrayBuffers string `json:"arrayBuffers"`
	Heap         string `json:"heap"`
}

// StatusStorage is the mirror's disk capacity.
type StatusStorage struct {
	Total string `json:"total"`
	Used  string `json:"used"`
	Free  string `json:"free"`
}

// Beatmap describes a single difficulty. Values are decoded as served.
type Beatmap struct {
	ID               int         `json:"id"`
	BeatmapSetID     int         `json:"beatmapset_id"`
	Mode             string      `json:"mode"`
	ModeInt          Mode        `json:"mode_int"`
	Status           string      `json:"status"`
	Ranked           RankStatus  `json:"ranked"`
	Version          string      `json:"version"`
	DifficultyRating float64     `json:"difficulty_rating"`
	TotalLength      int         `json:"total_length"`
	HitLength        int         `json:"hit_length"`
	BPM              float64     `json:"bpm"`
	CS               float64     `json:"cs"`
	AR               float64     `json:"ar"`
	Accuracy         float64     `json:"accuracy"`
	Drain            float64     `json:"drain"`
	CountCircles     int         `json:"count_circles"`
	CountSliders     int         `json:"count_sliders"`
	CountSpinners    int         `json:"count_spinners"`
	MaxCombo         int         `json:"max_combo"`
	Playcount        int         `json:"playcount"`
	Passcount        int         `json:"passcount"`
	Checksum         string      `json:"checksum"`
	UserID           int         `json:"user_id"`
	URL              string      `json:"url"`
	LastUpdated      time.Time   `json:"last_updated"`
	Set              *BeatmapSet `json:"set,omitempty"`
}

// BeatmapSet groups the difficulties uploaded together.
type BeatmapSet struct {
	ID             int        `json:"id"`
	Artist         string     `json:"artist"`
	ArtistUnicode  string     `json:"artist_unicode"`
	Title          string     `json:"title"`
	TitleUnicode   string     `json:"title_unicode"`
	Creator        string     `json:"creator"`
	UserID         int        `json:"user_id"`
	Source         string     `json:"source"`
	Tags           string     `json:"tags"`
	Status         string     `json:"status"`
	Ranked         RankStatus `json:"ranked"`
	BPM            float64    `json:"bpm"`
	PlayCount      int        `json:"play_count"`
	FavouriteCount int        `json:"favourite_count"`
	NSFW           bool       `json:"nsfw"`
	Video          bool       `json:"video"`
	Storyboard     bool       `json:"storyboard"`
	SubmittedDate  time.Time  `json:"submitted_date"`
	RankedDate     time.Time  `json:"ranked_date"`
	LastUpdated    time.Time  `json:"last_updated"`
	Beatmaps       []Beatmap  `json:"beatmaps"`
}

// Mode is an osu! game mode.
type Mode int

const (
	ModeOsu Mode = iota
	ModeTaiko
	ModeCatch
	ModeMania
)

// RankStatus is the ranked state of a beatmap or set.
type RankStatus int

const (
	Graveyard RankStatus = iota - 2
	WIP
	Pending
	Ranked
	Approved
	Qualified
	Loved
)

// DownloadResult is the terminal outcome of one Download call.
// Code holds the HTTP status that stopped the download, or 429 when the
// client's quota is spent; it is 0 when no status applies.
type DownloadResult struct {
	Finished bool
	Code     int
	Path     string
}

// ErrServer is wrapped by every [ServerError].
var ErrServer = errors.New("server error")

// ServerError reports a non-success status from a metadata endpoint.
type ServerError struct {
	StatusCode int
	Body       string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server responded with %d", e.StatusCode)
}

func (e *ServerError) Unwrap() error {
	return ErrServer
}
