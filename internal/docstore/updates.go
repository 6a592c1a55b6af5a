package docstore

import "go.mongodb.org/mongo-driver/v2/bson"

// likeFilter matches the content only while userID is on the side of the
// likes set the toggle starts from: absent when adding, present when removing.
func likeFilter(contentID, userID string, add bool) bson.M {
	if add {
		return bson.M{"_id": contentID, "likes": bson.M{"$ne": userID}}
	}
	return bson.M{"_id": contentID, "likes": userID}
}

// likeUpdate changes the set and its count together.
func likeUpdate(userID string, add bool) bson.M {
	if add {
		return bson.M{"$addToSet": bson.M{"likes": userID}, "$inc": bson.M{"likes_count": 1}}
	}
	return bson.M{"$pull": bson.M{"likes": userID}, "$inc": bson.M{"likes_count": -1}}
}

// counterFilter matches the document by id; decrements also require the
// counter to be positive so it never drops below zero.
func counterFilter(id, field string, delta int) bson.M {
	filter := bson.M{"_id": id}
	if delta < 0 {
		filter[field] = bson.M{"$gt": 0}
	}
	return filter
}

func counterUpdate(field string, delta int) bson.M {
	return bson.M{"$inc": bson.M{field: delta}}
}

// followCounters lists which counter of which user a follow edge moves.
func followCounters(followerID, followingID string) [2][2]string {
	return [2][2]string{
		{followingID, "follower_count"},
		{followerID, "following_count"},
	}
}
