package artifacts

import (
	"encoding/json"

	"github.com/railhop/railhop/pkg/rtm"
)

// The persisted transfer index mixes raw strings (same-station links,
// category recoverable from the operator prefixes) and tagged objects
// (inter-city links). transferRecord is the on-disk shape; load
// normalizes both variants into rtm.TransferEntry.
type transferRecord struct {
	ID        string `json:"id"`
	InterCity bool   `json:"interCity,omitempty"`
}

func (record transferRecord) MarshalJSON() ([]byte, error) {
	if !record.InterCity {
		return json.Marshal(record.ID)
	}

	type alias transferRecord
	return json.Marshal(alias(record))
}

func (record *transferRecord) UnmarshalJSON(body []byte) error {
	var plain string
	if err := json.Unmarshal(body, &plain); err == nil {
		record.ID = plain
		record.InterCity = false
		return nil
	}

	type alias transferRecord
	var tagged alias
	if err := json.Unmarshal(body, &tagged); err != nil {
		return err
	}

	*record = transferRecord(tagged)
	return nil
}

func encodeTransferIndex(index map[string][]rtm.TransferEntry) map[string][]transferRecord {
	encoded := map[string][]transferRecord{}

	for stopID, entries := range index {
		records := make([]transferRecord, 0, len(entries))
		for _, entry := range entries {
			records = append(records, transferRecord{
				ID:        entry.SiblingID,
				InterCity: entry.Category == rtm.TransferInterCitySameMetro,
			})
		}
		encoded[stopID] = records
	}

	return encoded
}

func decodeTransferIndex(encoded map[string][]transferRecord) map[string][]rtm.TransferEntry {
	index := map[string][]rtm.TransferEntry{}

	for stopID, records := range encoded {
		entries := make([]rtm.TransferEntry, 0, len(records))
		for _, record := range records {
			category := rtm.TransferInterCitySameMetro
			if !record.InterCity {
				category = rtm.CategoryForPair(stopID, record.ID)
			}

			entries = append(entries, rtm.TransferEntry{SiblingID: record.ID, Category: category})
		}
		index[stopID] = entries
	}

	return index
}
