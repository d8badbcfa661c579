package main

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"log"
	"modrelay/internal/modrelay"
	"os"
	"time"
)

func main() {
	fd, err := os.Open("audit.json")
	if err != nil {
		log.Fatal(err)
	}
	defer fd.Close()

	out, err := os.Create("audit.csv")
	if err != nil {
		log.Fatal(err)
	}
	defer out.Close()

	w := csv.NewWriter(out)

	sc := bufio.NewScanner(fd)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}

		var event modrelay.Event
		err = json.Unmarshal(line, &event)
		if err != nil {
			log.Fatal(err)
		}

		err = w.Write([]string{
			event.Date.Format(time.RFC3339),
			event.ModeratorID,
			event.Action,
			event.TargetID,
			event.Reason,
			event.MessageID,
		})
		if err != nil {
			log.Fatal(err)
		}
	}
	if err := sc.Err(); err != nil {
		log.Fatal(err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatal(err)
	}
}
