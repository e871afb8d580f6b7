package postgres

import (
	"errors"

	geofenceDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/geofence"
	notificationDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/notification"
	officerDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/officer"
	"github.com/frahmantamala/geofence-security/internal/notification"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) notification.RepositoryAPI {
	return &NotificationRepository{db: db}
}

func withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Organization").
		Preload("TargetGeofence").
		Preload("TargetOfficers", func(db *gorm.DB) *gorm.DB { return db.Order("security_officers.id") }).
		Preload("TargetOfficers.Organization").
		Preload("CreatedBy")
}

// replaceTargets rewrites the junction rows for one notification.
func replaceTargets(tx *gorm.DB, notificationID int64, officerIDs []int64) error {
	if err := tx.Exec("DELETE FROM "+notificationDatamodel.TargetOfficersJoinTable+" WHERE notification_id = ?", notificationID).Error; err != nil {
		return err
	}
	if len(officerIDs) == 0 {
		return nil
	}
	rows := make([]map[string]interface{}, 0, len(officerIDs))
	for _, id := range officerIDs {
		rows = append(rows, map[string]interface{}{"notification_id": notificationID, "officer_id": id})
	}
	return tx.Table(notificationDatamodel.TargetOfficersJoinTable).Create(rows).Error
}

func (r *NotificationRepository) Create(n *notificationDatamodel.Notification, officerIDs []int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(n).Error; err != nil {
			return err
		}
		return replaceTargets(tx, n.ID, officerIDs)
	})
}

func (r *NotificationRepository) GetByID(id int64) (*notificationDatamodel.Notification, error) {
	var n notificationDatamodel.Notification
	err := withRelations(r.db).Where("id = ?", id).First(&n).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}

func (r *NotificationRepository) List(orgID *int64, filter notification.ListFilter, limit, offset int) ([]*notificationDatamodel.Notification, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if orgID != nil {
			db = db.Where("organization_id = ?", *orgID)
		}
		if filter.NotificationType != "" {
			db = db.Where("notification_type = ?", filter.NotificationType)
		}
		if filter.TargetType != "" {
			db = db.Where("target_type = ?", filter.TargetType)
		}
		if filter.IsSent != nil {
			db = db.Where("is_sent = ?", *filter.IsSent)
		}
		return db
	}

	var total int64
	if err := r.db.Model(&notificationDatamodel.Notification{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*notificationDatamodel.Notification
	err := withRelations(r.db).Scopes(scope).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error
	return rows, total, err
}

// Update saves the columns and, when officerIDs is non-nil, replaces the targets.
func (r *NotificationRepository) Update(n *notificationDatamodel.Notification, officerIDs *[]int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(n).Error; err != nil {
			return err
		}
		if officerIDs == nil {
			return nil
		}
		return replaceTargets(tx, n.ID, *officerIDs)
	})
}

func (r *NotificationRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := replaceTargets(tx, id, nil); err != nil {
			return err
		}
		return tx.Delete(&notificationDatamodel.Notification{}, id).Error
	})
}

func (r *NotificationRepository) GetGeofence(id int64) (*geofenceDatamodel.Geofence, error) {
	var g geofenceDatamodel.Geofence
	if err := r.db.Where("id = ?", id).First(&g).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

// OfficerIDsInOrganization returns the subset of ids that exist in orgID.
func (r *NotificationRepository) OfficerIDsInOrganization(orgID int64, ids []int64) ([]int64, error) {
	var found []int64
	err := r.db.Model(&officerDatamodel.SecurityOfficer{}).
		Where("organization_id = ? AND id IN ?", orgID, ids).
		Pluck("id", &found).Error
	return found, err
}
