package appointmentRepo

import (
	"context"
	"fmt"

	"salonbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// withTransaction runs fn inside a Mongo multi-document transaction.
func (r *MongoAppointmentRepo) withTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := fn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
}

// InsertIfFree rechecks the interval inside the transaction before inserting.
// Callers serialize commits per staff member; the recheck catches reads that
// went stale before that serialization. A failed attempt leaves no row behind.
func (r *MongoAppointmentRepo) InsertIfFree(ctx context.Context, appt *models.Appointment) error {
	return r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		count, err := r.coll.CountDocuments(sc, overlapFilter(appt.StaffID, appt.Date, appt.Start, appt.End, ""))
		if err != nil {
			return fmt.Errorf("overlap recheck failed: %w", err)
		}
		if count > 0 {
			return ErrSlotTaken
		}
		if _, err := r.coll.InsertOne(sc, appt); err != nil {
			return fmt.Errorf("insert appointment failed: %w", err)
		}
		return nil
	})
}

// UpdateSlotIfFree moves an existing appointment, rechecking the target
// interval against every other blocking appointment inside the transaction.
func (r *MongoAppointmentRepo) UpdateSlotIfFree(ctx context.Context, appt *models.Appointment) error {
	return r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		count, err := r.coll.CountDocuments(sc, overlapFilter(appt.StaffID, appt.Date, appt.Start, appt.End, appt.ID))
		if err != nil {
			return fmt.Errorf("overlap recheck failed: %w", err)
		}
		if count > 0 {
			return ErrSlotTaken
		}

		update := bson.M{"$set": bson.M{
			"staffId":       appt.StaffID,
			"serviceId":     appt.ServiceID,
			"date":          appt.Date,
			"start":         appt.Start,
			"end":           appt.End,
			"customerName":  appt.CustomerName,
			"customerPhone": appt.CustomerPhone,
			"notes":         appt.Notes,
			"updatedAt":     appt.UpdatedAt,
		}}
		res, err := r.coll.UpdateOne(sc, bson.M{"id": appt.ID, "status": models.StatusPending}, update)
		if err != nil {
			return fmt.Errorf("update appointment failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrNotFound
		}
		return nil
	})
}
