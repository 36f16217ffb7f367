package dentistRepo

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ClaimSlot flips the slot to booked with a filtered array update. The
// booked=false condition in the array filter is what makes the claim
// atomic: a slot that was booked by a concurrent writer simply does
// not match and ModifiedCount stays zero.
func (r *MongoDentistRepo) ClaimSlot(dentistID, date, timeLabel, appointmentID string) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"calendar.$[d].slots.$[s].booked":        true,
		"calendar.$[d].slots.$[s].appointmentId": appointmentID,
		"updatedAt":                              time.Now(),
	}}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{
			bson.M{"d.date": date},
			bson.M{"s.time": timeLabel, "s.booked": false},
		},
	})

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": dentistID}, update, opts)
	if err != nil {
		return false, fmt.Errorf("failed to claim slot %s %s for dentist %s: %w", date, timeLabel, dentistID, err)
	}
	return result.ModifiedCount == 1, nil
}

// ReleaseSlot clears the booked flag and appointment reference.
func (r *MongoDentistRepo) ReleaseSlot(dentistID, date, timeLabel string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"calendar.$[d].slots.$[s].booked": false,
			"updatedAt":                       time.Now(),
		},
		"$unset": bson.M{
			"calendar.$[d].slots.$[s].appointmentId": "",
		},
	}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{
			bson.M{"d.date": date},
			bson.M{"s.time": timeLabel},
		},
	})

	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": dentistID}, update, opts); err != nil {
		return fmt.Errorf("failed to release slot %s %s for dentist %s: %w", date, timeLabel, dentistID, err)
	}
	return nil
}
